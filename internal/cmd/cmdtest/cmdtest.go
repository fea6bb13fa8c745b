// Package cmdtest runs nasctl commands against a fake appliance.
package cmdtest

import (
	"fmt"
	"net"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/internal/fakenas"
)

// ConfigPath is where Setup writes the configuration file.
const ConfigPath = "/etc/nasctl/config.hcl"

// Env is a command environment wired to a fake appliance.
type Env struct {
	Command *base.Command
	UI      *cli.MockUi
	NAS     *fakenas.Server
}

// Setup starts a fake appliance and writes a configuration file pointing at
// it into an in-memory filesystem.
func Setup(t *testing.T) *Env {
	t.Helper()

	nas := fakenas.New()
	srv := httptest.NewServer(nas)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigPath, []byte(fmt.Sprintf(`
appliance {
  host     = %q
  port     = %s
  scheme   = "http"
  username = %q
  password = %q
  timeout  = "10s"
}
`, host, port, fakenas.DefaultUsername, fakenas.DefaultPassword)), 0o600))

	ui := cli.NewMockUi()
	return &Env{
		Command: &base.Command{
			Log: hclog.NewNullLogger(),
			UI:  ui,
			FS:  fs,
		},
		UI:  ui,
		NAS: nas,
	}
}

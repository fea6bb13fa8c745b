package ls

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/cmd/cmdtest"
)

func TestLs(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-page-size", "2", "/data/"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())
	assert.Equal(t, []string{"a.txt", "b.bin", "c.log"}, strings.Fields(env.UI.OutputWriter.String()))
}

func TestLs_Long(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-l", "/"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())

	lines := strings.Split(strings.TrimSpace(env.UI.OutputWriter.String()), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^d\s+0 2026-01-15 10:00 data$`, lines[0])

	env.UI.OutputWriter.Reset()
	code = c.Run([]string{"-config", cmdtest.ConfigPath, "-l", "/data/"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())
	assert.Contains(t, env.UI.OutputWriter.String(), "18446744073709551616 2026-01-15 10:00 c.log")
}

func TestLs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no config", args: []string{"/"}, want: "config flag is required"},
		{name: "no directory", args: []string{"-config", cmdtest.ConfigPath}, want: "exactly one directory"},
		{name: "bad page size", args: []string{"-config", cmdtest.ConfigPath, "-page-size", "0", "/"}, want: "page-size"},
		{name: "not a directory", args: []string{"-config", cmdtest.ConfigPath, "/data/a.txt"}, want: "is not a directory"},
		{name: "missing config file", args: []string{"-config", "/nope.hcl", "/"}, want: "failed to read configuration file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := cmdtest.Setup(t)
			c := &Command{Command: env.Command}

			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, env.UI.ErrorWriter.String(), tt.want)
		})
	}
}

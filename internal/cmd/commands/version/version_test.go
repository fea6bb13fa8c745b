package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/cmd/cmdtest"
	"github.com/hashicorp-forge/nasrest/internal/version"
)

func TestVersion(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	require.Equal(t, 0, c.Run(nil))
	assert.Equal(t, "nasctl v"+version.Version+"\n", env.UI.OutputWriter.String())
}

func TestVersion_Appliance(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-format", "yaml"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())

	out := env.UI.OutputWriter.String()
	assert.Contains(t, out, "revision_id: nasos 7.1.0")
	assert.Contains(t, out, `build_id: "241118"`)
}

func TestVersion_MissingConfig(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	require.NoError(t, env.Command.FS.Remove(cmdtest.ConfigPath))
	assert.Equal(t, 1, c.Run([]string{"-config", cmdtest.ConfigPath}))
	assert.Contains(t, env.UI.ErrorWriter.String(), "configuration file")
}

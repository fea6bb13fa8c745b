package get

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/cmd/cmdtest"
)

func TestGet_Resource(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-kind", "user", "-id", "500"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.UI.OutputWriter.Bytes(), &user))
	assert.Equal(t, "admin", user["name"])
	assert.Equal(t, "500", user["id"])
}

func TestGet_Collection(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-kind", "nodes", "-format", "yaml"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())

	out := env.UI.OutputWriter.String()
	assert.Contains(t, out, "node_name: nas-test-1")
	assert.Contains(t, out, "id: 3")
}

func TestGet_FileByPath(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-kind", "file-attributes", "-id", "/data/c.log"})
	require.Equal(t, 0, code, env.UI.ErrorWriter.String())
	assert.Contains(t, env.UI.OutputWriter.String(), `"size": "18446744073709551616"`)
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no config", args: []string{"-kind", "user"}, want: "config flag is required"},
		{name: "no kind", args: []string{"-config", cmdtest.ConfigPath}, want: "kind flag is required"},
		{name: "unknown kind", args: []string{"-config", cmdtest.ConfigPath, "-kind", "volume"}, want: `unknown kind "volume"`},
		{name: "bad flag", args: []string{"-nope"}, want: "error parsing flags"},
		{name: "unresolved id", args: []string{"-config", cmdtest.ConfigPath, "-kind", "user"}, want: `cannot resolve ":id"`},
		{name: "not found", args: []string{"-config", cmdtest.ConfigPath, "-kind", "user", "-id", "9"}, want: "404"},
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

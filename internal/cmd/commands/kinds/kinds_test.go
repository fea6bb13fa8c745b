package kinds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/cmd/cmdtest"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
)

func TestKinds(t *testing.T) {
	env := cmdtest.Setup(t)
	c := &Command{Command: env.Command}

	require.Equal(t, 0, c.Run(nil))

	out := env.UI.OutputWriter.String()
	for _, name := range appliance.Kinds() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "/v1/users/ (items: user)")
	assert.Contains(t, out, "/v1/users/:id")

	first := strings.Fields(strings.SplitN(out, "\n", 2)[0])[0]
	assert.Equal(t, appliance.Kinds()[0], first)
}

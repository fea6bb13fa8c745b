package kinds

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "List the resource kinds accepted by get"
}

func (c *Command) Help() string {
	return `Usage: nasctl kinds

  Lists the resource kinds with their URI templates and fields.`
}

func (c *Command) Run(args []string) int {
	for _, name := range appliance.Kinds() {
		s, _ := appliance.Lookup(name)
		uri := s.URITemplate()
		if s.IsCollection() {
			uri += fmt.Sprintf(" (items: %s)", s.ItemSchema().Name())
		}
		fields := s.FieldNames()
		c.UI.Output(fmt.Sprintf("%-18s %s", name, uri))
		if len(fields) > 0 {
			c.UI.Output("    " + strings.Join(fields, ", "))
		}
	}
	return 0
}

package get

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

type Command struct {
	*base.Command

	conn     base.ConnectionFlags
	flagKind string
	flagID   string
}

func (c *Command) Synopsis() string {
	return "Fetch any appliance resource by kind"
}

func (c *Command) Help() string {
	return `Usage: nasctl get -config=<path> -kind=<kind> [-id=<id>]

  Fetches one resource, or every member of a collection, and prints its
  attributes as the appliance returned them.

  Kinds:
    ` + strings.Join(appliance.Kinds(), "\n    ") + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))

	c.conn.Register(f)
	f.StringVar(
		&c.flagKind, "kind", "", "(Required) Kind of resource to fetch.",
	)
	f.StringVar(
		&c.flagID, "id", "", "Value of the :id placeholder, e.g. a user id or a file path.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if err := c.conn.Check(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.flagKind == "" {
		c.UI.Error("kind flag is required")
		return 1
	}
	s, ok := appliance.Lookup(c.flagKind)
	if !ok {
		c.UI.Error(fmt.Sprintf("unknown kind %q, must be one of: %s",
			c.flagKind, strings.Join(appliance.Kinds(), ", ")))
		return 1
	}

	ctx := context.Background()
	cl, err := c.Connect(ctx, c.conn.Config)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	attrs := map[string]any{}
	if c.flagID != "" {
		attrs["id"] = c.flagID
	}

	out, err := fetch(ctx, cl, s, attrs)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching %s: %v", c.flagKind, err))
		return 1
	}
	if err := c.Print(out, c.conn.Format); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

// fetch returns the attributes of the resource, or of each member when s is
// a collection.
func fetch(ctx context.Context, exec resource.Executor, s *resource.Schema, attrs map[string]any) (any, error) {
	if !s.IsCollection() {
		r, err := resource.Get(ctx, exec, s, attrs)
		if err != nil {
			return nil, err
		}
		return r.Attributes(), nil
	}

	coll, err := resource.NewCollection(s, attrs)
	if err != nil {
		return nil, err
	}
	if _, err := coll.Get(ctx, exec); err != nil {
		return nil, err
	}
	items, err := coll.Items()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.Attributes()
	}
	return out, nil
}

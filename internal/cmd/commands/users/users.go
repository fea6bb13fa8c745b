package users

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
)

const formatTable = "table"

type Command struct {
	*base.Command

	conn base.ConnectionFlags
}

// user is the listing row of one local user.
type user struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	UID           string `json:"uid" yaml:"uid"`
	PrimaryGroup  string `json:"primary_group" yaml:"primary_group"`
	HomeDirectory string `json:"home_directory" yaml:"home_directory"`
}

func (c *Command) Synopsis() string {
	return "List local users"
}

func (c *Command) Help() string {
	return `Usage: nasctl users -config=<path> [-format=table|json|yaml]

  Lists the local users of the appliance.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("users", flag.ContinueOnError))
	c.conn.Register(f, formatTable, base.FormatJSON, base.FormatYAML)
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

	ctx := context.Background()
	cl, err := c.Connect(ctx, c.conn.Config)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	list, err := appliance.ListUsers(ctx, cl)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing users: %v", err))
		return 1
	}
	rows := make([]user, 0, len(list))
	for _, u := range list {
		var row user
		if err := u.Decode(&row); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		rows = append(rows, row)
	}
	c.Log.Debug("listed users", "count", len(rows))

	if c.conn.Format != formatTable {
		if err := c.Print(rows, c.conn.Format); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		return 0
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUID\tPRIMARY GROUP\tHOME")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.UID, r.PrimaryGroup, r.HomeDirectory)
	}
	tw.Flush()
	c.UI.Output(strings.TrimRight(b.String(), "\n"))
	return 0
}

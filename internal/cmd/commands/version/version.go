package version

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/internal/version"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
}

func (c *Command) Synopsis() string {
	return "Print the nasctl version and, optionally, the appliance version"
}

func (c *Command) Help() string {
	return `Usage: nasctl version [-config=<path>]

  Prints the nasctl version. With -config, also connects to the appliance
  and prints its software version.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("version", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to the appliance configuration file.",
	)
	f.StringVar(
		&c.flagFormat, "format", base.FormatJSON, "Output format of the appliance version, one of `json` or yaml.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("nasctl v%s", version.Version))
	if c.flagConfig == "" {
		return 0
	}

	ctx := context.Background()
	cl, err := c.Connect(ctx, c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	info, err := appliance.GetVersion(ctx, cl)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting appliance version: %v", err))
		return 1
	}
	if err := c.Print(info, c.flagFormat); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

package cluster

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect and manage the cluster"
}

func (c *Command) Help() string {
	return `Usage: nasctl cluster <subcommand> [options] [args]

  This command groups subcommands for the cluster settings and nodes.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

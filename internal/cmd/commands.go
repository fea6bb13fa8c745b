package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/cluster"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/get"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/kinds"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/ls"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/users"
	"github.com/hashicorp-forge/nasrest/internal/cmd/commands/version"
)

// Commands is the mapping of all available nasctl commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"cluster": func() (cli.Command, error) {
			return &cluster.Command{Command: b}, nil
		},
		"cluster nodes": func() (cli.Command, error) {
			return &cluster.NodesCommand{Command: b}, nil
		},
		"cluster rename": func() (cli.Command, error) {
			return &cluster.RenameCommand{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &get.Command{Command: b}, nil
		},
		"kinds": func() (cli.Command, error) {
			return &kinds.Command{Command: b}, nil
		},
		"ls": func() (cli.Command, error) {
			return &ls.Command{Command: b}, nil
		},
		"users": func() (cli.Command, error) {
			return &users.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}

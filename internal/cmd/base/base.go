package base

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/nasrest/pkg/client"
)

// Command holds what every subcommand needs.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is where configuration files are read from.
	FS afero.Fs
}

// NewCommand returns a Command reading configuration from the OS
// filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		FS:  afero.NewOsFs(),
	}
}

// Connect loads the configuration file at path, creates a client and logs
// in with the configured credentials.
func (c *Command) Connect(ctx context.Context, path string, opts ...client.Option) (*client.Client, error) {
	cfg, err := client.LoadConfigFile(c.FS, path)
	if err != nil {
		return nil, err
	}

	opts = append([]client.Option{client.WithLogger(c.Log)}, opts...)
	cl, err := client.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := cl.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("error logging in to %s: %w", cl.BaseURL(), err)
	}
	return cl, nil
}

package cluster

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

type RenameCommand struct {
	*base.Command

	conn     base.ConnectionFlags
	flagName string
}

func (c *RenameCommand) Synopsis() string {
	return "Rename the cluster"
}

func (c *RenameCommand) Help() string {
	return `Usage: nasctl cluster rename -config=<path> -name=<name>

  Renames the cluster. The settings are read and written back under their
  ETag, so a concurrent change makes the rename fail instead of being
  overwritten.` + c.Flags().Help()
}

func (c *RenameCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("rename", flag.ContinueOnError))

	c.conn.Register(f)
	f.StringVar(
		&c.flagName, "name", "", "(Required) New cluster name.",
	)

	return f
}

func (c *RenameCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if err := c.conn.Check(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.flagName == "" {
		c.UI.Error("name flag is required")
		return 1
	}

	ctx := context.Background()
	cl, err := c.Connect(ctx, c.conn.Config)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	settings, err := appliance.RenameCluster(ctx, cl, c.flagName)
	if err != nil {
		var rerr *resource.RequestFailedError
		if errors.As(err, &rerr) && rerr.StatusCode() == http.StatusPreconditionFailed {
			c.UI.Error("cluster settings changed concurrently, try again")
			return 1
		}
		c.UI.Error(fmt.Sprintf("error renaming cluster: %v", err))
		return 1
	}

	c.Log.Info("renamed cluster", "name", c.flagName, "etag", settings.ETag())
	if err := c.Print(settings.Attributes(), c.conn.Format); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

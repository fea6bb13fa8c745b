package cluster

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
)

type NodesCommand struct {
	*base.Command

	conn base.ConnectionFlags
}

// node is the listing row of one cluster node.
type node struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"node_name" yaml:"node_name"`
	Status       string `json:"node_status" yaml:"node_status"`
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	ModelNumber  string `json:"model_number" yaml:"model_number"`
}

func (c *NodesCommand) Synopsis() string {
	return "List the cluster nodes"
}

func (c *NodesCommand) Help() string {
	return `Usage: nasctl cluster nodes -config=<path>` + c.Flags().Help()
}

func (c *NodesCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("nodes", flag.ContinueOnError))
	c.conn.Register(f)
	return f
}

func (c *NodesCommand) Run(args []string) int {
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

	list, err := appliance.ListNodes(ctx, cl)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing nodes: %v", err))
		return 1
	}
	rows := make([]node, len(list))
	for i, n := range list {
		if err := n.Decode(&rows[i]); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	if err := c.Print(rows, c.conn.Format); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

package ls

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/nasrest/internal/cmd/base"
	"github.com/hashicorp-forge/nasrest/pkg/appliance"
	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

type Command struct {
	*base.Command

	flagConfig   string
	flagPageSize int
	flagLong     bool
}

func (c *Command) Synopsis() string {
	return "List a directory"
}

func (c *Command) Help() string {
	return `Usage: nasctl ls -config=<path> [-l] <directory>

  Lists the entries of a directory, given as an absolute path or a file id.
  Large directories are fetched a page at a time.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("ls", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the appliance configuration file.",
	)
	f.IntVar(
		&c.flagPageSize, "page-size", 1000, "Number of entries to fetch per request.",
	)
	f.BoolVar(
		&c.flagLong, "l", false, "Print type, size and modification time.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagConfig == "" {
		c.UI.Error("config flag is required")
		return 1
	}
	if c.flagPageSize < 1 {
		c.UI.Error("page-size must be at least 1")
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("exactly one directory is required")
		return 1
	}
	dir := flags.Arg(0)

	ctx := context.Background()
	cl, err := c.Connect(ctx, c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	count := 0
	err = appliance.WalkDirectory(ctx, cl, dir, c.flagPageSize, func(e *resource.Resource) error {
		count++
		line, err := c.format(e)
		if err != nil {
			return err
		}
		c.UI.Output(line)
		return nil
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing %s: %v", dir, err))
		return 1
	}
	c.Log.Debug("listed directory", "path", dir, "entries", count)
	return 0
}

func (c *Command) format(e *resource.Resource) (string, error) {
	name, err := appliance.FileName.Get(e)
	if err != nil {
		return "", err
	}
	if !c.flagLong {
		return name, nil
	}

	typ, err := appliance.FileType.Get(e)
	if err != nil {
		return "", err
	}
	size, err := appliance.FileSize.Get(e)
	if err != nil {
		return "", err
	}
	mtime, err := appliance.FileModificationTime.Get(e)
	if err != nil {
		return "", err
	}

	kind := "-"
	if typ == appliance.FileTypeDirectory {
		kind = "d"
	}
	sizeText := "0"
	if size != nil {
		sizeText = size.String()
	}
	return fmt.Sprintf("%s %20s %s %s", kind, sizeText, mtime.UTC().Format("2006-01-02 15:04"), name), nil
}

package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"
)

// FlagSet wraps a flag.FlagSet to render it for command help.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned rather than printed; the
// command reports them through its UI.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flags as an "Options:" section.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		fmt.Fprintf(&buf, "\n  -%s", fl.Name)
		if name != "" {
			fmt.Fprintf(&buf, "=<%s>", name)
		}
		buf.WriteString("\n      ")
		buf.WriteString(strings.ReplaceAll(usage, "\n", "\n      "))
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&buf, " Default: %s.", fl.DefValue)
		}
		buf.WriteString("\n")
	})
	return strings.TrimRight(buf.String(), "\n")
}

// ConnectionFlags are shared by the commands that talk to an appliance.
type ConnectionFlags struct {
	Config string
	Format string

	formats []string
}

// Register adds -config and -format to f. formats lists the accepted output
// formats, the first being the default; it defaults to json and yaml.
func (cf *ConnectionFlags) Register(f *FlagSet, formats ...string) {
	if len(formats) == 0 {
		formats = []string{FormatJSON, FormatYAML}
	}
	cf.formats = formats

	f.StringVar(
		&cf.Config, "config", "", "(Required) Path to the appliance configuration file.",
	)
	f.StringVar(
		&cf.Format, "format", formats[0],
		fmt.Sprintf("Output `format`, one of %s.", strings.Join(formats, ", ")),
	)
}

// Check validates the parsed values.
func (cf *ConnectionFlags) Check() error {
	if cf.Config == "" {
		return fmt.Errorf("config flag is required")
	}
	for _, f := range cf.formats {
		if cf.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, must be one of %s", cf.Format, strings.Join(cf.formats, ", "))
}

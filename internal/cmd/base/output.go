package base

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q, must be %q or %q", format, FormatJSON, FormatYAML)
}

// Print writes v to the UI in format.
func (c *Command) Print(v any, format string) error {
	out, err := Render(v, format)
	if err != nil {
		return err
	}
	c.UI.Output(out)
	return nil
}

// Render marshals v as JSON or YAML. Wire numbers are rendered as numbers in
// both formats.
func Render(v any, format string) (string, error) {
	v = Plain(v)
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(b), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
	return "", checkFormat(format)
}

// Plain converts decoded wire values into values both encoders render
// naturally: json.Number becomes int64 or float64 when it fits, and stays a
// string otherwise.
func Plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if strings.ContainsAny(string(x), ".eE") {
			if f, err := x.Float64(); err == nil {
				return f
			}
		}
		return string(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

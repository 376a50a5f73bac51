package editor

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

// WriteParams prints the parameters of mode as a table. An empty mode prints
// every parameter.
func WriteParams(w io.Writer, sc *schema.Schema, mode schema.Mode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tKIND\tDEFAULT\tMODES\tGROUP\tHELP")
	for _, d := range sc.Descriptors() {
		if mode != "" && !d.InMode(mode) {
			continue
		}
		kind := string(d.Kind)
		if d.Required {
			kind += "*"
		}
		if len(d.Options) > 0 {
			kind += " (" + strings.Join(d.Options, "|") + ")"
		}
		modes := make([]string, len(d.Modes))
		for i, m := range d.Modes {
			modes[i] = string(m)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Key, kind, display(d.Format(d.Default)), strings.Join(modes, ","), dash(d.Group), d.Help)
	}
	return tw.Flush()
}

// WritePresets prints preset names and modes in registry order.
func WritePresets(w io.Writer, entries []preset.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Mode)
	}
	return tw.Flush()
}

// WriteConfiguration prints the mode followed by every parameter of that
// mode. Values that differ from their default are marked with '*'.
func WriteConfiguration(w io.Writer, sc *schema.Schema, cfg session.Configuration) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "mode\t%s\n", cfg.Mode)
	for _, d := range sc.Descriptors() {
		if !d.InMode(cfg.Mode) {
			continue
		}
		v, ok := cfg.Values[d.Key]
		if !ok {
			v = d.Default
		}
		mark := ""
		if !d.IsDefault(v) {
			mark = " *"
		}
		fmt.Fprintf(tw, "%s\t%s%s\n", d.Key, display(d.Format(v)), mark)
	}
	return tw.Flush()
}

func display(s string) string {
	if s == "" {
		return `""`
	}
	return s
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

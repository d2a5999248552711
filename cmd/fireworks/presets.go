package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/fireworks/parameter"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the named presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writePresets(cmd.OutOrStdout())
		},
	}
}

// writePresets prints one row per preset, the default marked with '*'
func writePresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE\tINTERVAL\tCOUNT\tLIFE\tFADE\tPALETTE")
	for _, p := range parameter.Presets() {
		name := p.Name
		if name == parameter.DefaultPreset {
			name += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\t%s\n",
			name, p.Mode, p.BurstInterval, p.ParticlesPerBurst, p.InitialLife, p.FadeAlpha,
			strings.Join(p.Palette, ","))
	}
	return tw.Flush()
}

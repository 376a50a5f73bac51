package main

import (
	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/schema"
	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "List parameters, their defaults and the modes they apply to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m schema.Mode
			if mode != "" {
				parsed, err := schema.ParseMode(mode)
				if err != nil {
					return err
				}
				m = parsed
			}
			return editor.WriteParams(cmd.OutOrStdout(), schema.Default(), m)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Only list parameters of this mode (tts|infer|batch)")

	return cmd
}

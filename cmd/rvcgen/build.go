package main

import (
	"encoding/json"
	"fmt"

	"github.com/example/rvcgen/internal/clipboard"
	"github.com/spf13/cobra"
)

type buildOutput struct {
	Mode    string   `json:"mode"`
	Command string   `json:"command"`
	Argv    []string `json:"argv"`
	Missing []string `json:"missing"`
}

func newBuildCmd() *cobra.Command {
	var (
		flags  sessionFlags
		strict bool
		asJSON bool
		copyIt bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the voice_cloning.py command for a configuration",
		Example: `  rvcgen build --mode infer -s input_path=in.wav -s output_path=out.wav \
    -s pth_path=model.pth -s index_path=model.index -s pitch=5
  rvcgen build --preset "Singing Voice" -s input_path=song.wav --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			ed, err := openEditor(cfg)
			if err != nil {
				return err
			}
			if err := flags.apply(ed); err != nil {
				return err
			}
			if strict {
				if err := ed.Validate(); err != nil {
					return err
				}
			}

			c := ed.Command()
			out := cmd.OutOrStdout()
			if asJSON {
				missing := ed.Missing()
				if missing == nil {
					missing = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(buildOutput{
					Mode:    string(ed.Mode()),
					Command: c.String(),
					Argv:    c.Argv(),
					Missing: missing,
				}); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintln(out, c.String()); err != nil {
				return err
			}

			if copyIt {
				argv, err := cfg.ClipboardArgv()
				if err != nil {
					return err
				}
				if err := clipboard.Copy(cmd.Context(), argv, c.String()); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a required field of the mode is empty")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print mode, command, argv and missing fields as JSON")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "Also copy the command to the clipboard")

	return cmd
}

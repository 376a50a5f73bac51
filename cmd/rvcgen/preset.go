package main

import (
	"fmt"
	"strings"

	"github.com/example/rvcgen/internal/editor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage presets in the presets file",
	}

	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetShowCmd())
	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetDeleteCmd())

	return cmd
}

func presetEditor() (*editor.Editor, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	return openEditor(cfg)
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed, err := presetEditor()
			if err != nil {
				return err
			}
			return editor.WritePresets(cmd.OutOrStdout(), ed.List())
		},
	}
}

func newPresetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a preset as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := presetEditor()
			if err != nil {
				return err
			}
			p, err := ed.Preset(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(p); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newPresetSaveCmd() *cobra.Command {
	var (
		flags sessionFlags
		from  string
	)

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a full configuration snapshot as a preset",
		Long: "Save a full configuration snapshot as a preset. The snapshot starts from\n" +
			"defaults, or from --from, then applies --preset, --mode and --set.\n" +
			"An existing preset with the same name is replaced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := presetEditor()
			if err != nil {
				return err
			}
			if from != "" {
				flags.presets = append([]string{from}, flags.presets...)
			}
			if err := flags.apply(ed); err != nil {
				return err
			}
			if err := ed.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%s)\n", strings.TrimSpace(args[0]), ed.Mode())
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "Start from this preset")

	return cmd
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := presetEditor()
			if err != nil {
				return err
			}
			if err := ed.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

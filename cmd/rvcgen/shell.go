package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rvcgen/internal/clipboard"
	"github.com/example/rvcgen/internal/shell"
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit a configuration interactively",
		Long: "Edit a configuration interactively. Each line is one command; the\n" +
			"command line is printed after every change. Type help for the list.",
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

			in := cmd.InOrStdin()
			opts := []shell.Option{
				shell.WithCopy(func(ctx context.Context, text string) error {
					argv, err := cfg.ClipboardArgv()
					if err != nil {
						return err
					}
					return clipboard.Copy(ctx, argv, text)
				}),
			}
			if !isTerminal(in) {
				opts = append(opts, shell.WithPrompt(""))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if isTerminal(in) {
				fmt.Fprintln(out, ed.Command().String())
			}
			return shell.New(ed, in, out, opts...).Run(ctx)
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/example/rvcgen/internal/doctor"
	"github.com/example/rvcgen/internal/editor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check python, the tool script and the model files of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			program, err := cfg.ProgramArgv()
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

			interpreter, script := splitProgram(program)
			dcfg := doctor.Config{
				PythonVersion: func() (string, error) { return probePythonVersion(interpreter) },
				SkipPython:    interpreter == "",
				Script:        script,
				ModelFiles:    modelFiles(ed),
				Validate:      ed.Validate,
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "mode: %s\n", ed.Mode())
			result := doctor.Run(dcfg, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

// splitProgram picks the python interpreter and the .py script out of the
// program prefix. Either is empty when not present.
func splitProgram(program []string) (interpreter, script string) {
	for _, arg := range program {
		base := strings.ToLower(filepath.Base(arg))
		switch {
		case interpreter == "" && script == "" && strings.HasPrefix(base, "python"):
			interpreter = arg
		case script == "" && strings.HasSuffix(base, ".py"):
			script = arg
		}
	}
	return interpreter, script
}

func modelFiles(ed *editor.Editor) []doctor.ModelFile {
	var files []doctor.ModelFile
	for _, key := range []string{"pth_path", "index_path"} {
		v, err := ed.Value(key)
		if err != nil {
			continue
		}
		path, _ := v.(string)
		files = append(files, doctor.ModelFile{Key: key, Path: path})
	}
	return files
}

// probePythonVersion runs `exe --version` and returns the version string.
func probePythonVersion(exe string) (string, error) {
	out, err := exec.CommandContext(context.Background(), exe, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s --version failed: %w", exe, err)
	}
	// Output is e.g. "Python 3.11.4\n"
	raw := strings.TrimSpace(string(out))
	raw = strings.TrimPrefix(raw, "Python ")
	if raw == "" {
		return "", fmt.Errorf("%s --version printed nothing", exe)
	}
	return raw, nil
}

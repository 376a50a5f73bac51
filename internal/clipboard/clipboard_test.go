package clipboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyWritesStdin(t *testing.T) {
	scriptPath := writeStdinCaptureScript(t)
	outputPath := filepath.Join(t.TempDir(), "clipboard.txt")

	cmd := `python voice_cloning.py infer --input_path "a.wav"`
	err := Copy(context.Background(), []string{scriptPath, outputPath}, cmd)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, cmd, string(data))
}

func TestCopyRejectsEmptyArgv(t *testing.T) {
	err := Copy(context.Background(), nil, "payload")
	require.Error(t, err)
	require.Contains(t, err.Error(), "argv cannot be empty")
}

func TestCopyReportsStderrOnFailure(t *testing.T) {
	failScript := writeFailScript(t, "no display")

	err := Copy(context.Background(), []string{failScript}, "payload")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no display")
}

func TestCopyMissingProgram(t *testing.T) {
	err := Copy(context.Background(), []string{filepath.Join(t.TempDir(), "missing-copy")}, "payload")
	require.Error(t, err)
	require.Contains(t, err.Error(), "start")
}

func writeStdinCaptureScript(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture-stdin.sh")
	script := "#!/bin/sh\ncat > \"$1\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFailScript(t *testing.T, message string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fail.sh")
	script := "#!/bin/sh\ncat > /dev/null\necho \"" + message + "\" >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

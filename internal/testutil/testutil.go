// Package testutil provides shared fixtures and skip helpers for tests.
//
// Typical usage:
//
//	func TestInferCommand(t *testing.T) {
//	    store := testutil.InferStore(t)
//	    testutil.Set(t, store, "pitch", 5)
//	    ...
//	}
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

// NewStore returns a store over the built-in schema holding defaults.
func NewStore(tb testing.TB) *session.Store {
	tb.Helper()

	return session.New(schema.Default())
}

// InferStore returns a store in infer mode with every required field filled:
// input_path=a.wav, output_path=b.wav, pth_path=m.pth, index_path=m.index.
func InferStore(tb testing.TB) *session.Store {
	tb.Helper()

	s := NewStore(tb)
	if err := s.SetMode(schema.ModeInfer); err != nil {
		tb.Fatalf("SetMode(infer): %v", err)
	}
	Set(tb, s, "input_path", "a.wav")
	Set(tb, s, "output_path", "b.wav")
	Set(tb, s, "pth_path", "m.pth")
	Set(tb, s, "index_path", "m.index")
	return s
}

// Set assigns value to key and fails the test on error.
func Set(tb testing.TB, s *session.Store, key string, value any) {
	tb.Helper()

	if err := s.SetValue(key, value); err != nil {
		tb.Fatalf("SetValue(%s, %v): %v", key, value, err)
	}
}

// PresetsPath returns a not-yet-existing presets file path with the given
// extension inside a per-test temp directory.
func PresetsPath(tb testing.TB, ext string) string {
	tb.Helper()

	return filepath.Join(tb.TempDir(), "presets"+ext)
}

// RequirePython skips the test if no python interpreter is found in PATH or
// at the path given by the RVCGEN_PYTHON environment variable.
func RequirePython(tb testing.TB) {
	tb.Helper()

	if exe := os.Getenv("RVCGEN_PYTHON"); exe != "" {
		if _, err := exec.LookPath(exe); err == nil {
			return
		}
		tb.Skipf("python not available at RVCGEN_PYTHON=%q", exe)
		return
	}

	for _, exe := range []string{"python3", "python"} {
		if _, err := exec.LookPath(exe); err == nil {
			return
		}
	}

	tb.Skip("python3/python not in PATH; set RVCGEN_PYTHON to override")
}

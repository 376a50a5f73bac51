// Package doctor provides environment preflight checks for running a
// generated voice_cloning.py command.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// ModelFile names a model file referenced by the configuration.
type ModelFile struct {
	Key  string // parameter key, e.g. pth_path
	Path string
}

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// PythonVersion returns the interpreter version string (e.g. "3.11.4").
	PythonVersion VersionFunc
	// SkipPython skips the interpreter check, e.g. when the program is not a
	// python interpreter.
	SkipPython bool
	// Script is the tool script to find on disk. Empty skips the check.
	Script string
	// ModelFiles are checked for existence only; contents are not inspected.
	// Entries with an empty Path are reported as not set.
	ModelFiles []ModelFile
	// Validate reports empty required fields. Nil skips the check.
	Validate func() error
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- Python version ---------------------------------------------------
	switch {
	case cfg.SkipPython:
		fmt.Fprintf(w, "%s python version: skipped\n", PassMark)
	case cfg.PythonVersion == nil:
		res.fail("python version: no probe configured")
		fmt.Fprintf(w, "%s python version: no probe configured\n", FailMark)
	default:
		pyVer, err := cfg.PythonVersion()
		if err != nil {
			res.fail(fmt.Sprintf("python version: %v", err))
			fmt.Fprintf(w, "%s python version: not found (%v)\n", FailMark, err)
		} else if pyErr := checkPythonVersion(pyVer); pyErr != nil {
			res.fail(fmt.Sprintf("python version: %v", pyErr))
			fmt.Fprintf(w, "%s python version %s: %v\n", FailMark, pyVer, pyErr)
		} else {
			fmt.Fprintf(w, "%s python version: %s\n", PassMark, pyVer)
		}
	}

	// ---- tool script ------------------------------------------------------
	if cfg.Script != "" {
		if err := checkFile(cfg.Script); err != nil {
			res.fail(fmt.Sprintf("script %q: %v", cfg.Script, err))
			fmt.Fprintf(w, "%s script %s: %v\n", FailMark, cfg.Script, err)
		} else {
			fmt.Fprintf(w, "%s script: %s\n", PassMark, cfg.Script)
		}
	}

	// ---- model files ------------------------------------------------------
	for _, f := range cfg.ModelFiles {
		if strings.TrimSpace(f.Path) == "" {
			res.fail(fmt.Sprintf("%s: not set", f.Key))
			fmt.Fprintf(w, "%s %s: not set\n", FailMark, f.Key)
			continue
		}
		if err := checkFile(f.Path); err != nil {
			res.fail(fmt.Sprintf("%s %q: %v", f.Key, f.Path, err))
			fmt.Fprintf(w, "%s %s %s: %v\n", FailMark, f.Key, f.Path, err)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", PassMark, f.Key, f.Path)
		}
	}

	// ---- required fields --------------------------------------------------
	if cfg.Validate != nil {
		if err := cfg.Validate(); err != nil {
			msg := strings.ReplaceAll(err.Error(), "\n", "; ")
			res.fail(fmt.Sprintf("required fields: %s", msg))
			fmt.Fprintf(w, "%s required fields: %s\n", FailMark, msg)
		} else {
			fmt.Fprintf(w, "%s required fields: complete\n", PassMark)
		}
	}

	return res
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.New("not found")
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	return nil
}

// checkPythonVersion returns an error if ver is outside [3.10, 3.15).
// ver is expected to be a string like "3.11.4".
func checkPythonVersion(ver string) error {
	major, minor, err := parseMajorMinor(ver)
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major != 3 {
		return fmt.Errorf("requires Python 3, got %d", major)
	}
	if minor < 10 {
		return fmt.Errorf("requires Python >=3.10, got 3.%d", minor)
	}
	if minor >= 15 {
		return fmt.Errorf("requires Python <3.15, got 3.%d", minor)
	}
	return nil
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}

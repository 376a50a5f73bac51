package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitProgram(t *testing.T) {
	tests := []struct {
		program     []string
		interpreter string
		script      string
	}{
		{[]string{"python", "voice_cloning.py"}, "python", "voice_cloning.py"},
		{[]string{"/usr/bin/python3.11", "-u", "tools/voice_cloning.py"}, "/usr/bin/python3.11", "tools/voice_cloning.py"},
		{[]string{"uv", "run", "rvc.py"}, "", "rvc.py"},
		{[]string{"rvc-cli"}, "", ""},
	}

	for _, tt := range tests {
		interpreter, script := splitProgram(tt.program)
		if interpreter != tt.interpreter || script != tt.script {
			t.Errorf("splitProgram(%q) = (%q, %q); want (%q, %q)",
				tt.program, interpreter, script, tt.interpreter, tt.script)
		}
	}
}

func TestProbePythonVersion_MissingExecutable(t *testing.T) {
	if _, err := probePythonVersion("/nonexistent/python-binary"); err == nil {
		t.Fatal("expected error for missing executable")
	}
}

func TestProbePythonVersion_FakeExecutable(t *testing.T) {
	script := filepath.Join(t.TempDir(), "python")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'Python 3.12.1'\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := probePythonVersion(script)
	if err != nil {
		t.Fatalf("probePythonVersion: %v", err)
	}
	if got != "3.12.1" {
		t.Errorf("version = %q; want 3.12.1", got)
	}
}

func TestDoctor_PassesWithFakeEnvironment(t *testing.T) {
	dir := t.TempDir()
	python := filepath.Join(dir, "python3")
	tool := filepath.Join(dir, "voice_cloning.py")
	pth := filepath.Join(dir, "m.pth")
	index := filepath.Join(dir, "m.index")
	if err := os.WriteFile(python, []byte("#!/bin/sh\necho 'Python 3.11.9'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{tool, pth, index} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, presetsFile(t),
		"--program-command", python+" "+tool,
		"doctor", "--mode", "infer",
		"-s", "input_path=a.wav", "-s", "output_path=b.wav",
		"-s", "pth_path="+pth, "-s", "index_path="+index)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("output:\n%s", out)
	}
}

func TestDoctor_FailsOnMissingModelFiles(t *testing.T) {
	out, err := execute(t, presetsFile(t),
		"--program-command", "uv run rvc.py",
		"doctor", "--mode", "infer", "-s", "pth_path=/nonexistent/m.pth")
	if err == nil {
		t.Fatalf("doctor = nil error; output:\n%s", out)
	}
	for _, want := range []string{"python version: skipped", "pth_path", "index_path: not set", "required fields"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

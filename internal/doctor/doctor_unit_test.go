package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckPythonVersion(t *testing.T) {
	tests := []struct {
		ver     string
		wantSub string // empty means the version is accepted
	}{
		{"3.10.12", ""},
		{"3.12", ""},
		{"3.13.0rc1", ""},
		{"3.14.0", ""},
		{"3.10.14 (PyPy)", ""},
		{"3.9.18", "requires Python >=3.10"},
		{"3.15.0", "requires Python <3.15"},
		{"2.7.18", "requires Python 3"},
		{"3", "cannot parse"},
		{"", "cannot parse"},
		{"x.11", "bad major"},
		{"3.y", "bad minor"},
	}

	for _, tt := range tests {
		err := checkPythonVersion(tt.ver)
		switch {
		case tt.wantSub == "" && err != nil:
			t.Errorf("checkPythonVersion(%q) = %v; want nil", tt.ver, err)
		case tt.wantSub != "" && (err == nil || !strings.Contains(err.Error(), tt.wantSub)):
			t.Errorf("checkPythonVersion(%q) = %v; want error containing %q", tt.ver, err, tt.wantSub)
		}
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "voice.pth")
	if err := os.WriteFile(model, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := checkFile(model); err != nil {
		t.Errorf("checkFile(existing) = %v; want nil", err)
	}
	if err := checkFile(filepath.Join(dir, "voice.index")); err == nil || err.Error() != "not found" {
		t.Errorf("checkFile(missing) = %v; want not found", err)
	}
	if err := checkFile(dir); err == nil || err.Error() != "is a directory" {
		t.Errorf("checkFile(dir) = %v; want is a directory", err)
	}
}

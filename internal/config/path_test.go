package config

import (
	"path/filepath"
	"testing"
)

func TestResolvePresetsPath(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg")

		got, err := ResolvePresetsPath("custom/presets.toml")
		if err != nil {
			t.Fatal(err)
		}
		if got != "custom/presets.toml" {
			t.Errorf("ResolvePresetsPath() = %q; want explicit path", got)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg")

		got, err := ResolvePresetsPath("  ")
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/xdg", "rvcgen", "presets.yaml"); got != want {
			t.Errorf("ResolvePresetsPath() = %q; want %q", got, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/tester")

		got, err := ResolvePresetsPath("")
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/home/tester", ".config", "rvcgen", "presets.yaml"); got != want {
			t.Errorf("ResolvePresetsPath() = %q; want %q", got, want)
		}
	})
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePresetsPath applies explicit/XDG/home fallback rules for the presets
// file location.
func ResolvePresetsPath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "rvcgen", "presets.yaml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for presets fallback")
	}

	return filepath.Join(home, ".config", "rvcgen", "presets.yaml"), nil
}

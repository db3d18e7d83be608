// Package xdg provides helpers to resolve XDG Base Directory paths for mbcli.
// It falls back to traditional locations when XDG environment variables are
// not set and keeps the configuration directory private.
package xdg

import (
	"os"
	"path/filepath"
)

// appName is the directory name used under every XDG base.
const appName = "mbcli"

// ConfigDir returns the XDG config directory for mbcli.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/mbcli when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

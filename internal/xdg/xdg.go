// Package xdg resolves XDG Base Directory paths for agentconsole.
// Configuration lives under the config dir; the file keyring backend and other
// machine-local data live under the state dir. Both fall back to the usual
// home-relative locations when the XDG variables are unset.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "agentconsole"

// ConfigDir returns the XDG config directory for agentconsole.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/agentconsole when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for agentconsole.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/agentconsole when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envVar, homeRel string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

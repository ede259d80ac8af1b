// Package paths resolves configuration and data directory locations for the
// slots CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under the platform config and data roots.
const appDirName = "slots"

// LocalConfigDirName is a project-local config directory. When it exists in
// the working directory it takes precedence over the platform default.
const LocalConfigDirName = ".slots"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SLOTS_CONFIG_DIR"
	EnvDataDir   = "SLOTS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/slots (fallback ~/.config/slots)
// macOS:   ~/Library/Application Support/slots
// Windows: %APPDATA%/slots
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/slots (fallback ~/.local/share/slots)
// macOS:   ~/Library/Application Support/slots
// Windows: %APPDATA%/slots
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformRoot(xdgVar, homeFallback string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SLOTS_CONFIG_DIR env > ./.slots (if present) > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, LocalConfigDirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > SLOTS_DATA_DIR env > configYAMLValue > DefaultDataDir().
//
// A relative configYAMLValue is taken relative to configDir, so a checked-in
// config keeps pointing at the same place wherever the CLI runs from.
func ResolveDataDir(flag, configDir, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configYAMLValue != "" {
		if filepath.IsAbs(configYAMLValue) || configDir == "" {
			return filepath.Abs(configYAMLValue)
		}
		return filepath.Join(configDir, configYAMLValue), nil
	}
	return DefaultDataDir()
}

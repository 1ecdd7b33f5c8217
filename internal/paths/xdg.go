// Package paths resolves where vulegen looks for its user-level settings.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config root.
const AppName = "vulegen"

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv reads the process environment.
type OSEnv struct{}

// Get implements Env.
func (OSEnv) Get(key string) string { return os.Getenv(key) }

// ConfigDir computes the config directory from the environment and
// platform defaults.
//
// Resolution order:
//  1. VULEGEN_CONFIG_DIR env var (if set)
//  2. macOS: ~/Library/Preferences/vulegen
//  3. XDG_CONFIG_HOME/vulegen (if set)
//  4. ~/.config/vulegen
//
// The homeDir parameter must be an absolute path to the user's home directory.
// This function does not touch the filesystem (no mkdir).
// ~ inside env vars is treated as literal (not expanded).
func ConfigDir(env Env, homeDir string) string {
	return ConfigDirWithOS(env, homeDir, IsDarwin())
}

// IsDarwin returns true if the current OS is macOS.
func IsDarwin() bool {
	return runtime.GOOS == "darwin"
}

// ConfigDirWithOS is like ConfigDir but accepts an explicit OS flag for testing.
func ConfigDirWithOS(env Env, homeDir string, isDarwin bool) string {
	if v := env.Get("VULEGEN_CONFIG_DIR"); v != "" {
		return v
	}
	if isDarwin {
		return filepath.Join(homeDir, "Library", "Preferences", AppName)
	}
	if v := env.Get("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	return filepath.Join(homeDir, ".config", AppName)
}

// UserConfigDir resolves the config directory for the current user.
// It returns "" when the home directory cannot be determined and no
// override is set.
func UserConfigDir() string {
	env := OSEnv{}
	home, err := os.UserHomeDir()
	if err != nil {
		if v := env.Get("VULEGEN_CONFIG_DIR"); v != "" {
			return v
		}
		return ""
	}
	return ConfigDir(env, home)
}

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultAppName = "tierlist"

// Paths holds the per-user locations the CLI reads and writes.
type Paths struct {
	ConfigPath string
	DataDir    string
	ExportDir  string
}

// Options selects the application directory name.
type Options struct {
	AppName string
	DevMode bool
}

// baseOverrides lists, per GOOS, the environment variables that replace the
// config and data base directories.
var baseOverrides = map[string][2]string{
	"linux":   {"XDG_CONFIG_HOME", "XDG_DATA_HOME"},
	"windows": {"APPDATA", "LOCALAPPDATA"},
}

// DefaultPaths returns paths for the default application name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: defaultAppName})
}

// DefaultPathsWithOptions resolves paths from the running OS and environment.
// Dev mode appends "-dev" to the application directory.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = defaultAppName
	}
	if opts.DevMode {
		appName += "-dev"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir := configDir
	switch runtime.GOOS {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			dataDir = v
		}
	}

	env := map[string]string{}
	for _, names := range baseOverrides {
		for _, name := range names {
			env[name] = os.Getenv(name)
		}
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, appName)
}

// PathsFor resolves paths for goos from explicit base directories and env values.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}

	configBase, dataBase := userConfigDir, userDataDir
	if names, ok := baseOverrides[goos]; ok {
		if v := env[names[0]]; v != "" {
			configBase = v
		}
		if v := env[names[1]]; v != "" {
			dataBase = v
		}
	}

	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    dataDir,
		ExportDir:  filepath.Join(dataDir, "exports"),
	}, nil
}

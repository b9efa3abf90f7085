package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/absensi/absensi/internal/config/data"
)

// AppName names the application directories.
const AppName = "absensi"

var (
	// AppConfigDir is ~/.config/absensi
	AppConfigDir string

	// AppDataDir is ~/.local/share/absensi
	AppDataDir string

	// AppStateDir is ~/.local/state/absensi
	AppStateDir string

	// AppConfigFile is ~/.config/absensi/absensi.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/absensi/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/absensi/aliases.yaml
	AppAliasesFile string

	// AppCredentialsFile is ~/.local/share/absensi/credentials
	AppCredentialsFile string

	// AppProfilesDir is ~/.local/share/absensi/profiles
	AppProfilesDir string

	// AppLogFile is ~/.local/state/absensi/absensi.log
	AppLogFile string

	// AppExportsDir is ~/.local/state/absensi/exports
	AppExportsDir string
)

// InitLocs resolves and creates the application directories, honoring the
// XDG base directory variables.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	configHome := xdg("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataHome := xdg("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	stateHome := xdg("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	AppConfigDir = filepath.Join(configHome, AppName)
	AppDataDir = filepath.Join(dataHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")

	AppCredentialsFile = filepath.Join(AppDataDir, "credentials")
	AppProfilesDir = filepath.Join(AppDataDir, "profiles")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")
	AppExportsDir = filepath.Join(AppStateDir, "exports")

	data.SetDefaultProfilesDir(AppProfilesDir)

	for _, dir := range []string{AppConfigDir, AppDataDir, AppStateDir, AppProfilesDir, AppExportsDir} {
		if _, err := data.EnsureDirPath(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists.
func InitLogLoc(path string) error {
	return data.EnsureFullPath(path, 0700)
}

func xdg(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

// GlobalDirName is the name of the per-user client directory.
const GlobalDirName = ".seadrive-tray"

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
	AccountsFileName = "accounts.yaml"
	LogsDirName      = "logs"
	LogFileName      = "seadrive-tray.log"
)

// GlobalDir returns the path to the client directory (~/.seadrive-tray/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

// GlobalAccountsFile returns the path to the accounts.yaml file.
func GlobalAccountsFile() (string, error) {
	return globalFile(AccountsFileName)
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() (string, error) {
	return globalFile(filepath.Join(LogsDirName, LogFileName))
}

// EnsureGlobalDir creates the client directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

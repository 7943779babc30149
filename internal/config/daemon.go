package config

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// ReadDaemonInfo returns the endpoint announced in daemon.yaml, or nil when no
// daemon has announced one.
func ReadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}
	info := &models.DaemonInfo{}
	if err := LoadYAML(path, info); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// PublishDaemonInfo announces a daemon endpoint to clients.
func PublishDaemonInfo(info *models.DaemonInfo) error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// WithdrawDaemonInfo removes the announcement. A missing file is not an error.
func WithdrawDaemonInfo() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ProbeDaemon reports whether the announced daemon process is alive.
// The announcement is returned even when the process is gone; such a stale
// daemon.yaml is withdrawn.
func ProbeDaemon() (bool, *models.DaemonInfo, error) {
	info, err := ReadDaemonInfo()
	if err != nil || info == nil {
		return false, nil, err
	}
	if pidAlive(info.PID) {
		return true, info, nil
	}
	_ = WithdrawDaemonInfo()
	return false, info, nil
}

func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

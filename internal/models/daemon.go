package models

import (
	"net"
	"strconv"
	"time"
)

// DaemonInfoFormat is the schema revision of daemon.yaml.
const DaemonInfoFormat = 1

// DaemonInfo is what a running SeaDrive daemon announces in ~/.seadrive-tray/daemon.yaml
// so clients can find its RPC endpoint.
type DaemonInfo struct {
	Format    int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	PID       int       `yaml:"pid"`
	Build     string    `yaml:"build,omitempty"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo announces a daemon listening on host:port from process pid.
func NewDaemonInfo(host string, port, pid int) *DaemonInfo {
	return &DaemonInfo{
		Format:    DaemonInfoFormat,
		Host:      host,
		Port:      port,
		PID:       pid,
		StartedAt: time.Now().UTC(),
	}
}

// Address is the dial target of the announced endpoint.
func (d *DaemonInfo) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// SameInstance reports whether two infos describe the same daemon process.
// A nil info only matches another nil.
func (d *DaemonInfo) SameInstance(other *DaemonInfo) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.PID == other.PID && d.Address() == other.Address()
}

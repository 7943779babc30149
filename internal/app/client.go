package app

import (
	"context"
	"errors"
	"sync"

	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
	"github.com/seadrive-io/seadrive-tray/internal/rpc"
)

var errNoDaemon = errors.New("daemon not running")

// daemonConn is the poller's client. It exists before the daemon does and
// is (re)dialed whenever a new daemon instance appears.
type daemonConn struct {
	opts rpc.Options

	mu     sync.RWMutex
	client *rpc.Client
}

func (d *daemonConn) get() *rpc.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}

// connect points the connection at the daemon described by info.
func (d *daemonConn) connect(info *models.DaemonInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		c, err := rpc.DialDaemon(info, d.opts)
		if err != nil {
			return err
		}
		d.client = c
		return nil
	}
	target := rpc.Target(info)
	if d.client.CurrentTarget() == target {
		return nil
	}
	return d.client.Redial(target)
}

func (d *daemonConn) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

func (d *daemonConn) IsConnected() bool {
	c := d.get()
	return c != nil && c.IsConnected()
}

func (d *daemonConn) GetSeaDriveEvents(ctx context.Context) (message.Payload, error) {
	c := d.get()
	if c == nil {
		return nil, errNoDaemon
	}
	return c.GetSeaDriveEvents(ctx)
}

func (d *daemonConn) GetSyncNotification(ctx context.Context) (message.Payload, error) {
	c := d.get()
	if c == nil {
		return nil, errNoDaemon
	}
	return c.GetSyncNotification(ctx)
}

func (d *daemonConn) GetGlobalSyncStatus(ctx context.Context) (message.Payload, error) {
	c := d.get()
	if c == nil {
		return nil, errNoDaemon
	}
	return c.GetGlobalSyncStatus(ctx)
}

func (d *daemonConn) GetSyncErrors(ctx context.Context) ([]message.Payload, error) {
	c := d.get()
	if c == nil {
		return nil, errNoDaemon
	}
	return c.GetSyncErrors(ctx)
}

func (d *daemonConn) AddDelConfirmation(ctx context.Context, confirmationID string, declined bool) error {
	c := d.get()
	if c == nil {
		return errNoDaemon
	}
	return c.AddDelConfirmation(ctx, confirmationID, declined)
}

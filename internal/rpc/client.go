package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/seadrive-io/seadrive-tray/internal/buildinfo"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("rpc client closed")

// Options configures a Client.
type Options struct {
	// ClientID identifies this process to the daemon. Empty generates one.
	ClientID string
	// Version is sent as client-version. Empty uses the build version.
	Version     string
	Logger      *zap.Logger
	DialOptions []grpc.DialOption
}

// Client talks to the daemon over gRPC. The underlying connection can be
// replaced with Redial when the daemon restarts on a new address.
type Client struct {
	clientID string
	version  string
	dialOpts []grpc.DialOption
	log      *zap.Logger

	mu     sync.RWMutex
	conn   *grpc.ClientConn
	target string
	closed bool
}

// Dial creates a client for target. The connection is established lazily.
func Dial(target string, opts Options) (*Client, error) {
	if opts.ClientID == "" {
		opts.ClientID = uuid.NewString()
	}
	if opts.Version == "" {
		opts.Version = buildinfo.Version
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Client{
		clientID: opts.ClientID,
		version:  opts.Version,
		log:      opts.Logger.With(zap.String("component", "rpc")),
	}
	c.dialOpts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(buildinfo.UserAgent()),
		grpc.WithUnaryInterceptor(c.withMetadata),
	}, opts.DialOptions...)

	conn, err := grpc.NewClient(target, c.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	c.conn = conn
	c.target = target
	return c, nil
}

// DialDaemon creates a client for the daemon described by info.
func DialDaemon(info *models.DaemonInfo, opts Options) (*Client, error) {
	if info == nil {
		return nil, fmt.Errorf("daemon not running")
	}
	return Dial(Target(info), opts)
}

// Target returns the dial target of the daemon described by info.
func Target(info *models.DaemonInfo) string {
	return info.Address()
}

func (c *Client) withMetadata(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	ctx = metadata.AppendToOutgoingContext(ctx,
		MetadataClientID, c.clientID,
		MetadataClientVersion, c.version)
	return invoker(ctx, method, req, reply, cc, opts...)
}

// ClientID returns the id sent with every call.
func (c *Client) ClientID() string {
	return c.clientID
}

// CurrentTarget returns the address the client is dialed to.
func (c *Client) CurrentTarget() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// Redial replaces the connection with one to target.
func (c *Client) Redial(target string) error {
	conn, err := grpc.NewClient(target, c.dialOpts...)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	old := c.conn
	c.conn = conn
	c.target = target
	c.mu.Unlock()

	c.log.Info("redialed daemon", zap.String("target", target))
	return old.Close()
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) current() (*grpc.ClientConn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	return c.conn, nil
}

// IsConnected reports whether the channel is ready. An idle channel is asked
// to connect and reports false until it is.
func (c *Client) IsConnected() bool {
	conn, err := c.current()
	if err != nil {
		return false
	}
	switch conn.GetState() {
	case connectivity.Ready:
		return true
	case connectivity.Idle:
		conn.Connect()
	}
	return false
}

// WaitForReady blocks until the channel is ready or ctx is done.
func (c *Client) WaitForReady(ctx context.Context) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if state == connectivity.Shutdown {
			return ErrClosed
		}
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

// GetSeaDriveEvents pops the next filesystem event, or nil if none is pending.
func (c *Client) GetSeaDriveEvents(ctx context.Context) (message.Payload, error) {
	return c.getStruct(ctx, MethodGetSeaDriveEvents)
}

// GetSyncNotification pops the next sync notification, or nil if none is pending.
func (c *Client) GetSyncNotification(ctx context.Context) (message.Payload, error) {
	return c.getStruct(ctx, MethodGetSyncNotification)
}

// GetGlobalSyncStatus returns the daemon-wide transfer state.
func (c *Client) GetGlobalSyncStatus(ctx context.Context) (message.Payload, error) {
	return c.getStruct(ctx, MethodGetGlobalSyncStatus)
}

// GetSyncErrors returns the current sync error list.
func (c *Client) GetSyncErrors(ctx context.Context) ([]message.Payload, error) {
	conn, err := c.current()
	if err != nil {
		return nil, err
	}

	out := &structpb.ListValue{}
	if err := conn.Invoke(ctx, FullMethod(MethodGetSyncErrors), &emptypb.Empty{}, out); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", MethodGetSyncErrors, err)
	}

	items := make([]message.Payload, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		if s := v.GetStructValue(); s != nil {
			items = append(items, message.Payload(s.AsMap()))
		}
	}
	return items, nil
}

// AddDelConfirmation answers a deletion confirmation. declined=true cancels
// the deletion.
func (c *Client) AddDelConfirmation(ctx context.Context, confirmationID string, declined bool) error {
	conn, err := c.current()
	if err != nil {
		return err
	}

	in, err := structpb.NewStruct(map[string]any{
		FieldConfirmationID: confirmationID,
		FieldResync:         declined,
	})
	if err != nil {
		return err
	}
	if err := conn.Invoke(ctx, FullMethod(MethodAddDelConfirmation), in, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("%s: %w", MethodAddDelConfirmation, err)
	}
	return nil
}

func (c *Client) getStruct(ctx context.Context, method string) (message.Payload, error) {
	conn, err := c.current()
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, FullMethod(method), &emptypb.Empty{}, out); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return message.Payload(out.AsMap()), nil
}

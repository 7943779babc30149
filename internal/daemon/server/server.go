// Package server implements a development daemon that serves the daemon RPC
// service from in-memory queues.
package server

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/seadrive-io/seadrive-tray/internal/rpc"
)

// Server is the dev daemon's gRPC server.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	port       int
	queues     *Queues
	log        *zap.Logger
}

// New creates a new server listening on the specified port.
// Pass port 0 for dynamic allocation.
func New(port int, log *zap.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	return NewWithListener(listener, log), nil
}

// NewWithListener creates a server on an existing listener.
func NewWithListener(listener net.Listener, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	port := 0
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}

	srv := &Server{
		listener: listener,
		port:     port,
		queues:   NewQueues(),
		log:      log.With(zap.String("component", "devd")),
	}
	srv.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(srv.logCall))
	rpc.RegisterDaemonServiceServer(srv.grpcServer, &daemonService{queues: srv.queues, log: srv.log})
	return srv
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Queues returns the message queues served to clients.
func (s *Server) Queues() *Queues {
	return s.queues
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

func (s *Server) logCall(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var clientID, version string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(rpc.MetadataClientID); len(v) > 0 {
			clientID = v[0]
		}
		if v := md.Get(rpc.MetadataClientVersion); len(v) > 0 {
			version = v[0]
		}
	}
	s.queues.seeClient(clientID, version)

	resp, err := handler(ctx, req)
	s.log.Debug("rpc",
		zap.String("method", info.FullMethod),
		zap.String("client_id", clientID),
		zap.Error(err))
	return resp, err
}

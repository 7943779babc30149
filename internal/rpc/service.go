// Package rpc defines the daemon RPC service and the client the poller uses
// to drain its notification channels.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified daemon service name.
const ServiceName = "seadrive.DaemonService"

// Daemon service methods.
const (
	MethodGetSeaDriveEvents   = "GetSeaDriveEvents"
	MethodGetSyncNotification = "GetSyncNotification"
	MethodGetGlobalSyncStatus = "GetGlobalSyncStatus"
	MethodGetSyncErrors       = "GetSyncErrors"
	MethodAddDelConfirmation  = "AddDelConfirmation"
)

// Metadata keys sent with every call.
const (
	MetadataClientID      = "client-id"
	MetadataClientVersion = "client-version"
)

// Fields of the AddDelConfirmation request.
const (
	FieldConfirmationID = "confirmation_id"
	FieldResync         = "resync"
)

// FullMethod returns the RPC path of a daemon method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// DaemonServiceServer is the server interface for DaemonService. Channel
// getters return codes.NotFound when nothing is pending.
type DaemonServiceServer interface {
	GetSeaDriveEvents(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetSyncNotification(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetGlobalSyncStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetSyncErrors(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	AddDelConfirmation(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterDaemonServiceServer registers the DaemonServiceServer with the gRPC server.
func RegisterDaemonServiceServer(s grpc.ServiceRegistrar, srv DaemonServiceServer) {
	s.RegisterService(&daemonServiceDesc, srv)
}

var daemonServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DaemonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodGetSeaDriveEvents, Handler: unaryHandler(MethodGetSeaDriveEvents, DaemonServiceServer.GetSeaDriveEvents)},
		{MethodName: MethodGetSyncNotification, Handler: unaryHandler(MethodGetSyncNotification, DaemonServiceServer.GetSyncNotification)},
		{MethodName: MethodGetGlobalSyncStatus, Handler: unaryHandler(MethodGetGlobalSyncStatus, DaemonServiceServer.GetGlobalSyncStatus)},
		{MethodName: MethodGetSyncErrors, Handler: unaryHandler(MethodGetSyncErrors, DaemonServiceServer.GetSyncErrors)},
		{MethodName: MethodAddDelConfirmation, Handler: unaryHandler(MethodAddDelConfirmation, DaemonServiceServer.AddDelConfirmation)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seadrive/daemon.proto",
}

func unaryHandler[Req, Resp any](method string, call func(DaemonServiceServer, context.Context, *Req) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DaemonServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(DaemonServiceServer), ctx, req.(*Req))
		})
	}
}

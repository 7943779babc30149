package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/rpc"
)

// ConfirmationAnswer is a deletion confirmation reply received from a client.
type ConfirmationAnswer struct {
	ConfirmationID string
	Declined       bool
	ReceivedAt     time.Time
}

// Queues holds the messages the dev daemon hands out. Events and
// notifications are consumed on read; status and errors are snapshots.
type Queues struct {
	mu            sync.Mutex
	events        []*structpb.Struct
	notifications []*structpb.Struct
	status        *structpb.Struct
	syncErrors    *structpb.ListValue
	answers       []ConfirmationAnswer
	clients       map[string]string
}

// NewQueues creates empty queues with an idle status.
func NewQueues() *Queues {
	st, _ := structpb.NewStruct(map[string]any{
		"is_syncing": false,
		"sent_bytes": 0,
		"recv_bytes": 0,
	})
	return &Queues{
		status:     st,
		syncErrors: &structpb.ListValue{},
		clients:    make(map[string]string),
	}
}

// PushEvent enqueues a filesystem event.
func (q *Queues) PushEvent(p message.Payload) error {
	s, err := structpb.NewStruct(p)
	if err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, s)
	return nil
}

// PushNotification enqueues a sync notification.
func (q *Queues) PushNotification(p message.Payload) error {
	s, err := structpb.NewStruct(p)
	if err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notifications = append(q.notifications, s)
	return nil
}

// SetStatus replaces the global sync status.
func (q *Queues) SetStatus(syncing bool, sent, recv int64) {
	st, _ := structpb.NewStruct(map[string]any{
		"is_syncing": syncing,
		"sent_bytes": sent,
		"recv_bytes": recv,
	})
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = st
}

// SetSyncErrors replaces the sync error list.
func (q *Queues) SetSyncErrors(items []message.Payload) error {
	values := make([]*structpb.Value, 0, len(items))
	for _, p := range items {
		s, err := structpb.NewStruct(p)
		if err != nil {
			return fmt.Errorf("invalid sync error: %w", err)
		}
		values = append(values, structpb.NewStructValue(s))
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.syncErrors = &structpb.ListValue{Values: values}
	return nil
}

// Answers returns the confirmation replies received so far.
func (q *Queues) Answers() []ConfirmationAnswer {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ConfirmationAnswer(nil), q.answers...)
}

// Clients returns the client ids seen so far with their reported versions.
func (q *Queues) Clients() map[string]string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[string]string, len(q.clients))
	for k, v := range q.clients {
		out[k] = v
	}
	return out
}

func (q *Queues) seeClient(id, version string) {
	if id == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clients[id] = version
}

func pop(q *[]*structpb.Struct) *structpb.Struct {
	if len(*q) == 0 {
		return nil
	}
	s := (*q)[0]
	*q = (*q)[1:]
	return s
}

type daemonService struct {
	queues *Queues
	log    *zap.Logger
}

func (s *daemonService) GetSeaDriveEvents(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	if ev := pop(&s.queues.events); ev != nil {
		return ev, nil
	}
	return nil, status.Error(codes.NotFound, "no pending event")
}

func (s *daemonService) GetSyncNotification(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	if n := pop(&s.queues.notifications); n != nil {
		return n, nil
	}
	return nil, status.Error(codes.NotFound, "no pending notification")
}

func (s *daemonService) GetGlobalSyncStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	return s.queues.status, nil
}

func (s *daemonService) GetSyncErrors(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	return s.queues.syncErrors, nil
}

func (s *daemonService) AddDelConfirmation(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	id := fields[rpc.FieldConfirmationID].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "missing confirmation_id")
	}
	declined := fields[rpc.FieldResync].GetBoolValue()

	s.queues.mu.Lock()
	s.queues.answers = append(s.queues.answers, ConfirmationAnswer{
		ConfirmationID: id,
		Declined:       declined,
		ReceivedAt:     time.Now(),
	})
	s.queues.mu.Unlock()

	s.log.Info("delete confirmation answered",
		zap.String("confirmation_id", id),
		zap.Bool("declined", declined))
	return &emptypb.Empty{}, nil
}

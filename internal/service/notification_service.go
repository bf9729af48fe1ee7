package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/store"
)

// NotificationService reports realtime activity in the console log.
type NotificationService struct {
	dispatcher events.Dispatcher
	store      *store.Store
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, st *store.Store, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		store:      st,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventConnectionStatus, n.handleConnectionStatus)
	n.dispatcher.Subscribe(events.EventChatMessageReceived, n.handleChatMessage)
}

func (n *NotificationService) handleConnectionStatus(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ConnectionStatusPayload)
	if !ok {
		return nil
	}
	switch payload.State {
	case events.ConnectionDisconnected:
		n.logger.Warn("realtime disconnected", zap.String("reason", payload.Reason))
	default:
		n.logger.Info("realtime status", zap.String("state", string(payload.State)))
	}
	return nil
}

// handleChatMessage flags customer messages that arrive for a session the
// operator does not have open.
func (n *NotificationService) handleChatMessage(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ChatMessageReceivedPayload)
	if !ok {
		return nil
	}
	msg := payload.Message
	if n.store != nil && n.store.CurrentSession().SessionID == msg.SessionID {
		return nil
	}
	n.logger.Info("unread chat message",
		zap.String("session_id", msg.SessionID),
		zap.String("message_id", msg.ID),
		zap.String("sender", string(msg.Sender)))
	return nil
}

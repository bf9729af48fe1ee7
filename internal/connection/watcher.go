package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// TokenSource yields the bearer token for the realtime handshake.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Frame is the envelope of every realtime message sent by the platform.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const frameChatMessage = "chat_message"

// Watcher keeps a WebSocket open to the platform and reports its state on
// the dispatcher.
type Watcher struct {
	url        string
	tokens     TokenSource
	dispatcher events.Dispatcher
	interval   time.Duration
	dialer     *websocket.Dialer
	logger     *zap.Logger
}

// NewWatcher builds a watcher. A zero interval defaults to five seconds.
func NewWatcher(url string, tokens TokenSource, dispatcher events.Dispatcher, interval time.Duration, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		url:        url,
		tokens:     tokens,
		dispatcher: dispatcher,
		interval:   interval,
		dialer:     websocket.DefaultDialer,
		logger:     logger,
	}
}

// Run connects and reconnects at a fixed interval until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		state := events.ConnectionConnecting
		if attempt > 0 {
			state = events.ConnectionReconnecting
		}
		w.publish(ctx, state, "")

		err := w.connect(ctx)
		if ctx.Err() != nil {
			w.publish(context.Background(), events.ConnectionDisconnected, "shutdown")
			return nil
		}

		reason := ""
		if err != nil {
			reason = err.Error()
			w.logger.Warn("realtime connection lost", zap.Error(err), zap.Duration("retry_in", w.interval))
		}
		w.publish(ctx, events.ConnectionDisconnected, reason)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

func (w *Watcher) connect(ctx context.Context) error {
	header := http.Header{}
	if w.tokens != nil {
		token, err := w.tokens.Get(ctx)
		if err != nil {
			return fmt.Errorf("read bearer token: %w", err)
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, _, err := w.dialer.DialContext(ctx, w.url, header)
	if err != nil {
		return fmt.Errorf("dial realtime: %w", err)
	}
	defer conn.Close()

	w.logger.Info("realtime connected", zap.String("url", w.url))
	w.publish(ctx, events.ConnectionConnected, "")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("closed by server")
			}
			return err
		}
		w.handleFrame(ctx, data)
	}
}

func (w *Watcher) handleFrame(ctx context.Context, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		w.logger.Warn("unparseable realtime frame", zap.Error(err))
		return
	}

	switch frame.Event {
	case frameChatMessage:
		var msg domain.ChatMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			w.logger.Warn("invalid chat message frame", zap.Error(err))
			return
		}
		_ = w.dispatcher.Publish(ctx, events.New(events.EventChatMessageReceived, events.ChatMessageReceivedPayload{Message: msg}))
	default:
		w.logger.Debug("ignoring realtime frame", zap.String("event", frame.Event))
	}
}

func (w *Watcher) publish(ctx context.Context, state events.ConnectionState, reason string) {
	_ = w.dispatcher.Publish(ctx, events.New(events.EventConnectionStatus, events.ConnectionStatusPayload{
		State:  state,
		Reason: reason,
	}))
}

package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/store"
	"github.com/spec-kit/ticket-console/internal/tagging"
)

// TagSuggestionService recomputes tag suggestions for the open session once
// its transcript has been quiet for the debounce period.
type TagSuggestionService struct {
	store     *store.Store
	suggester *tagging.Suggester
	debouncer *tagging.Debouncer
	logger    *zap.Logger

	mu     sync.RWMutex
	latest []string
}

// NewTagSuggestionService constructs the service.
func NewTagSuggestionService(st *store.Store, suggester *tagging.Suggester, wait time.Duration, logger *zap.Logger) *TagSuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TagSuggestionService{store: st, suggester: suggester, logger: logger}
	s.debouncer = tagging.NewDebouncer(wait, s.recompute)
	return s
}

// RegisterHandlers subscribes to transcript and tag changes.
func (s *TagSuggestionService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessagesChanged, s.handleChange)
	dispatcher.Subscribe(events.EventTagsChanged, s.handleChange)
}

func (s *TagSuggestionService) handleChange(context.Context, events.Event) error {
	var b strings.Builder
	for _, msg := range s.store.Messages() {
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	s.debouncer.Trigger(b.String())
	return nil
}

func (s *TagSuggestionService) recompute(text string) {
	tags := s.store.Tags()
	current := make([]string, 0, len(tags))
	for _, tag := range tags {
		current = append(current, tag.Name)
	}
	suggestions := slices.Collect(s.suggester.Suggest(text, current))

	s.mu.Lock()
	s.latest = suggestions
	s.mu.Unlock()

	if len(suggestions) > 0 {
		s.logger.Debug("tag suggestions",
			zap.String("session_id", s.store.CurrentSession().SessionID),
			zap.Strings("tags", suggestions))
	}
}

// Latest returns the most recent suggestions, never nil.
func (s *TagSuggestionService) Latest() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return []string{}
	}
	return slices.Clone(s.latest)
}

// Stop cancels a pending recomputation.
func (s *TagSuggestionService) Stop() {
	s.debouncer.Stop()
}

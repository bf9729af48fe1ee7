package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
)

// API is the slice of the platform client the session needs.
type API interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.Resource[dto.LoginResult], error)
	Logout(ctx context.Context) (dto.Ack, error)
	Me(ctx context.Context) (dto.Resource[domain.User], error)
	RefreshToken(ctx context.Context) (dto.Resource[dto.LoginResult], error)
}

// ErrEmptyToken is returned when the platform answers a login or refresh
// without a token.
var ErrEmptyToken = errors.New("platform returned an empty token")

// Session is the authentication context of the console: the persisted token
// plus the operator it belongs to.
type Session struct {
	api    API
	tokens TokenStore
	logger *zap.Logger

	mu   sync.RWMutex
	user *domain.User
}

// NewSession creates a logged-out session.
func NewSession(api API, tokens TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{api: api, tokens: tokens, logger: logger}
}

// User returns a copy of the logged-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a user is loaded.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) setUser(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Login exchanges credentials for a token, persists it and loads the user.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.api.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if res.Data.Token == "" {
		return nil, ErrEmptyToken
	}
	if err := s.tokens.Set(ctx, res.Data.Token); err != nil {
		return nil, err
	}
	if res.Data.User != nil {
		s.setUser(res.Data.User)
		return s.User(), nil
	}
	if !s.Validate(ctx) {
		return nil, errors.New("session validation failed after login")
	}
	return s.User(), nil
}

// Logout tells the platform to end the session and clears local state no
// matter how that call went. Only a failure to clear the token store is
// returned.
func (s *Session) Logout(ctx context.Context) error {
	if _, err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("logout call failed", zap.Error(err))
	}
	s.setUser(nil)
	return s.tokens.Clear(ctx)
}

// Validate loads the user for the persisted token. Any failure clears the
// token and leaves the session logged out; the error is logged, not returned.
func (s *Session) Validate(ctx context.Context) bool {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		s.logger.Warn("read persisted token", zap.Error(err))
		s.setUser(nil)
		return false
	}
	if token == "" {
		s.setUser(nil)
		return false
	}
	res, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Warn("session validation failed", zap.Error(err))
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			s.logger.Warn("clear persisted token", zap.Error(clearErr))
		}
		s.setUser(nil)
		return false
	}
	user := res.Data
	s.setUser(&user)
	return true
}

// Refresh swaps the persisted token for a fresh one. A failure is returned
// but leaves the session untouched so the next attempt can recover.
func (s *Session) Refresh(ctx context.Context) error {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	res, err := s.api.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if res.Data.Token == "" {
		return ErrEmptyToken
	}
	if err := s.tokens.Set(ctx, res.Data.Token); err != nil {
		return err
	}
	if res.Data.User != nil {
		s.setUser(res.Data.User)
	}
	return nil
}

// RefreshIfExpiring refreshes when the token expires within window. Tokens
// whose expiry cannot be read are refreshed unconditionally. It reports
// whether a refresh was attempted.
func (s *Session) RefreshIfExpiring(ctx context.Context, window time.Duration) (bool, error) {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	if exp, err := TokenExpiry(token); err == nil && time.Until(exp) > window {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/cache"
	"github.com/BradenHooton/frontdesk/internal/models"
)

func sessionKey(userID string) string { return "token:" + userID }

// SessionService issues bearer credentials and keeps the latest one per user
// in the cache slot token:<userId>.
type SessionService struct {
	store  cache.Store
	tm     *auth.TokenManager
	logger *slog.Logger
}

func NewSessionService(store cache.Store, tm *auth.TokenManager, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, tm: tm, logger: logger}
}

// Issue signs a credential for user and stores it with the same lifetime
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, error) {
	token, _, err := s.tm.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	if err := s.store.SetEx(ctx, sessionKey(user.ID), token, s.tm.TTL()); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	s.logger.Debug("session issued", slog.String("user_id", user.ID))
	return token, nil
}

// Revoke drops the stored session; revoking an absent session succeeds
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	if err := s.store.Del(ctx, sessionKey(userID)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/frontdesk/internal/models"
)

// StaffRepository lists staff accounts
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

// StaffService exposes staff profiles without credentials
type StaffService struct {
	repo   StaffRepository
	logger *slog.Logger
}

func NewStaffService(repo StaffRepository, logger *slog.Logger) *StaffService {
	return &StaffService{repo: repo, logger: logger}
}

func (s *StaffService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get staff member", slog.String("user_id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return user.Public(), nil
}

// ListByRole returns the staff holding role, e.g. doctors for booking
func (s *StaffService) ListByRole(ctx context.Context, role string) ([]*models.PublicUser, error) {
	if !validRole(role) {
		return nil, fmt.Errorf("%w: invalid role", models.ErrBadRequest)
	}

	users, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		s.logger.Error("failed to list staff", slog.String("role", role), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	out := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

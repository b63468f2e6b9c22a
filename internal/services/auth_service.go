package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/models"
	pkgauth "github.com/BradenHooton/frontdesk/pkg/auth"
	pkglogger "github.com/BradenHooton/frontdesk/pkg/logger"
)

const notifyTimeout = 5 * time.Second

// UserRepository is the credential store
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// SessionIssuer issues and revokes session credentials
type SessionIssuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Revoke(ctx context.Context, userID string) error
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// RegisterInput carries a new staff account
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	Specialization *string
}

// AuthService runs the login gate, registration and logout
type AuthService struct {
	users       UserRepository
	tracker     *AttemptTracker
	sessions    SessionIssuer
	notifier    Notifier
	timing      *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger

	notifications sync.WaitGroup
}

func NewAuthService(
	users UserRepository,
	tracker *AttemptTracker,
	sessions SessionIssuer,
	notifier Notifier,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:       users,
		tracker:     tracker,
		sessions:    sessions,
		notifier:    notifier,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AttemptLogin decides a login attempt for email. Errors are one of
// ErrValidation, ErrUserNotFound, ErrInvalidCredentials, *AccountBlockedError
// or a wrapped ErrInternalServer.
func (s *AuthService) AttemptLogin(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	start := time.Now()
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrValidation
	}

	block, err := s.tracker.ActiveBlock(ctx, email)
	if err != nil {
		return nil, s.infraFailure("failed to read block record", err)
	}
	if block != nil {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_blocked",
			Email:         email,
			IPAddress:     ip,
			FailureReason: block.Reason,
		})
		return nil, &models.AccountBlockedError{Reason: block.Reason, BlockedUntil: block.BlockedUntil}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_failed",
			Email:         email,
			IPAddress:     ip,
			FailureReason: "user_not_found",
		})
		s.timing.WaitFrom(ctx, start)
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, s.infraFailure("failed to load user", err)
	}

	err = pkgauth.ComparePassword(user.PasswordHash, password)
	if errors.Is(err, pkgauth.ErrPasswordMismatch) {
		return nil, s.rejectPassword(ctx, user, email, ip, start)
	}
	if err != nil {
		return nil, s.infraFailure("failed to compare password", err)
	}

	policy := s.tracker.Policy()
	successes, err := s.tracker.SuccessCount(ctx, email)
	if err != nil {
		return nil, s.infraFailure("failed to read success counter", err)
	}
	// compared before this login is counted, so the login after the
	// threshold is the one that trips the block
	if successes >= int64(policy.MaxSuccessfulLogins) {
		return nil, s.block(ctx, user, email, ip, models.BlockReasonSuspicious, policy.SuspiciousBlockDuration)
	}

	if _, err := s.tracker.RecordSuccess(ctx, email); err != nil {
		return nil, s.infraFailure("failed to record success", err)
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, s.infraFailure("failed to issue session", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: ip,
		Success:   true,
	})

	return &LoginResult{Token: token, User: user.Public()}, nil
}

func (s *AuthService) rejectPassword(ctx context.Context, user *models.User, email, ip string, start time.Time) error {
	policy := s.tracker.Policy()
	failures, err := s.tracker.RecordFailure(ctx, email)
	if err != nil {
		return s.infraFailure("failed to record failure", err)
	}

	if failures >= int64(policy.MaxFailedAttempts) {
		return s.block(ctx, user, email, ip, models.BlockReasonFailedAttempts, policy.FailedBlockDuration)
	}

	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:     "login_failed",
		UserID:        user.ID,
		IPAddress:     ip,
		FailureReason: "invalid_credentials",
		Metadata:      map[string]string{"failed_attempts": fmt.Sprint(failures)},
	})
	s.timing.WaitFrom(ctx, start)
	return models.ErrInvalidCredentials
}

func (s *AuthService) block(ctx context.Context, user *models.User, email, ip, reason string, d time.Duration) error {
	rec, err := s.tracker.Block(ctx, email, reason, d)
	if err != nil {
		return s.infraFailure("failed to write block record", err)
	}

	s.auditLogger.LogBlock(ctx, email, reason, rec.BlockedUntil)
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:     "login_blocked",
		UserID:        user.ID,
		IPAddress:     ip,
		FailureReason: reason,
	})
	s.notifyBlocked(ctx, user, rec)

	return &models.AccountBlockedError{Reason: rec.Reason, BlockedUntil: rec.BlockedUntil, Fresh: true}
}

// notifyBlocked sends the lockout email in the background so the 403 is
// not held up by the mail provider.
func (s *AuthService) notifyBlocked(ctx context.Context, user *models.User, rec *models.BlockRecord) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyAccountBlocked(ctx, user, rec); err != nil {
			s.logger.Warn("failed to send block notification",
				slog.String("user_id", user.ID),
				slog.Any("error", err))
		}
	}()
}

// WaitNotifications blocks until in-flight lockout emails have finished
func (s *AuthService) WaitNotifications() {
	s.notifications.Wait()
}

// Register creates a staff account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: name, email, password and role are required", models.ErrBadRequest)
	}
	if !validRole(in.Role) {
		return nil, fmt.Errorf("%w: invalid role", models.ErrBadRequest)
	}
	if in.Specialization != nil {
		spec := strings.TrimSpace(*in.Specialization)
		if spec == "" {
			in.Specialization = nil
		} else if in.Role != models.RoleDoctor {
			return nil, fmt.Errorf("%w: only doctors can have a specialization", models.ErrBadRequest)
		} else {
			in.Specialization = &spec
		}
	}
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		s.logger.Info("registration failed: user already exists")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, s.infraFailure("failed to check existing user", err)
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		return nil, s.infraFailure("failed to hash password", err)
	}

	created, err := s.users.Create(ctx, &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		Role:           in.Role,
		Specialization: in.Specialization,
	})
	if errors.Is(err, models.ErrConflict) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, s.infraFailure("failed to create user", err)
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID), slog.String("role", created.Role))
	s.auditLogger.LogAccountAction(ctx, "user_registered", created.ID, map[string]string{"role": created.Role})
	return created.Public(), nil
}

// Logout revokes the caller's stored session
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return s.infraFailure("failed to revoke session", err)
	}
	s.auditLogger.LogAccountAction(ctx, "logout", userID, nil)
	return nil
}

func (s *AuthService) infraFailure(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validRole(role string) bool {
	switch role {
	case models.RoleDoctor, models.RoleReceptionist, models.RolePharmacist:
		return true
	}
	return false
}

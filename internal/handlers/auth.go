package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkgauth "github.com/BradenHooton/frontdesk/pkg/auth"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
)

// AuthServiceInterface defines the login gate, registration and logout
type AuthServiceInterface interface {
	AttemptLogin(ctx context.Context, email, password, ip string) (*services.LoginResult, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.PublicUser, error)
	Logout(ctx context.Context, userID string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	ipConfig      *pkghttp.IPConfig
	blockMessages map[string]string
}

func NewAuthHandler(service AuthServiceInterface, policy services.LockoutPolicy, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
		blockMessages: map[string]string{
			models.BlockReasonFailedAttempts: fmt.Sprintf("Too many failed attempts. Account blocked for %s.", humanDuration(policy.FailedBlockDuration)),
			models.BlockReasonSuspicious:     fmt.Sprintf("Suspicious activity detected. Account blocked for %s.", humanDuration(policy.SuspiciousBlockDuration)),
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required"`
	Role           string  `json:"role" validate:"required,oneof=doctor receptionist pharmacist"`
	Specialization *string `json:"specialization"`
}

// BlockDetails accompanies a 403 from the login endpoint
type BlockDetails struct {
	Reason       string    `json:"reason"`
	BlockedUntil time.Time `json:"blockedUntil"`
}

// Login runs the login gate
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Email and password are required")
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)
	result, err := h.service.AttemptLogin(r.Context(), req.Email, req.Password, ip)
	if err != nil {
		var blocked *models.AccountBlockedError
		switch {
		case errors.As(err, &blocked):
			pkghttp.WriteErrorWithDetails(w, http.StatusForbidden, "account_blocked", h.blockMessage(blocked),
				BlockDetails{Reason: blocked.Reason, BlockedUntil: blocked.BlockedUntil})
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, "Email and password are required")
		case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrInvalidCredentials):
			// one answer for both so responses do not reveal which emails exist
			pkghttp.WriteError(w, http.StatusBadRequest, "invalid_credentials", "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) blockMessage(blocked *models.AccountBlockedError) string {
	if blocked.Fresh {
		if msg, ok := h.blockMessages[blocked.Reason]; ok {
			return msg
		}
	}
	return "Account temporarily blocked. Try again later."
}

// Register creates a staff account
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		Specialization: req.Specialization,
	})
	if err != nil {
		var pwErr *pkgauth.PasswordValidationError
		switch {
		case errors.As(err, &pwErr):
			pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "weak_password", pwErr.Error(), pwErr.Errors)
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "User already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, detail(err, models.ErrBadRequest))
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Logout revokes the caller's stored session. Repeating it is harmless.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute && d%time.Minute == 0:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	}
	return d.String()
}

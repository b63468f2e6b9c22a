package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkgauth "github.com/BradenHooton/frontdesk/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(svc *MockAuthService) *AuthHandler {
	return NewAuthHandler(svc, services.DefaultLockoutPolicy(), nil)
}

func TestLogin_Success(t *testing.T) {
	var gotEmail, gotIP string
	h := newTestAuthHandler(&MockAuthService{
		AttemptLoginFunc: func(_ context.Context, email, _, ip string) (*services.LoginResult, error) {
			gotEmail, gotIP = email, ip
			return &services.LoginResult{
				Token: "signed-token",
				User:  &models.PublicUser{ID: "user-1", Name: "Dr. Who", Email: email, Role: models.RoleDoctor},
			}, nil
		},
	})

	req := NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "doc@clinic.test", Password: "Secret123"})
	req.RemoteAddr = "192.0.2.10:5000"
	w := httptest.NewRecorder()
	h.Login(w, req)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID             string  `json:"id"`
			Role           string  `json:"role"`
			Specialization *string `json:"specialization"`
		} `json:"user"`
	}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Nil(t, resp.User.Specialization)
	assert.Contains(t, w.Body.String(), `"specialization":null`)
	assert.Equal(t, "doc@clinic.test", gotEmail)
	assert.Equal(t, "192.0.2.10", gotIP)
}

func TestLogin_MissingFields(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{
		AttemptLoginFunc: func(context.Context, string, string, string) (*services.LoginResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	w := httptest.NewRecorder()
	h.Login(w, NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "doc@clinic.test"}))

	resp := AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "Email and password are required", resp.Message)
}

func TestLogin_MalformedBody(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Login(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestLogin_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	var bodies []string
	for _, svcErr := range []error{models.ErrUserNotFound, models.ErrInvalidCredentials} {
		h := newTestAuthHandler(&MockAuthService{
			AttemptLoginFunc: func(context.Context, string, string, string) (*services.LoginResult, error) {
				return nil, svcErr
			},
		})
		w := httptest.NewRecorder()
		h.Login(w, NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "a@b.test", Password: "x"}))

		resp := AssertErrorResponse(t, w, http.StatusBadRequest, "invalid_credentials")
		assert.Equal(t, "Invalid credentials", resp.Message)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestLogin_Blocked(t *testing.T) {
	until := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "fresh failed-attempts block",
			err:     &models.AccountBlockedError{Reason: models.BlockReasonFailedAttempts, BlockedUntil: until, Fresh: true},
			message: "Too many failed attempts. Account blocked for 1 hour.",
		},
		{
			name:    "fresh suspicious block",
			err:     &models.AccountBlockedError{Reason: models.BlockReasonSuspicious, BlockedUntil: until, Fresh: true},
			message: "Suspicious activity detected. Account blocked for 5 hours.",
		},
		{
			name:    "existing block",
			err:     &models.AccountBlockedError{Reason: models.BlockReasonSuspicious, BlockedUntil: until},
			message: "Account temporarily blocked. Try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(&MockAuthService{
				AttemptLoginFunc: func(context.Context, string, string, string) (*services.LoginResult, error) {
					return nil, tt.err
				},
			})
			w := httptest.NewRecorder()
			h.Login(w, NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "a@b.test", Password: "x"}))

			resp := AssertErrorResponse(t, w, http.StatusForbidden, "account_blocked")
			assert.Equal(t, tt.message, resp.Message)
			assert.Contains(t, w.Body.String(), `"blockedUntil":"2025-03-01T10:00:00Z"`)
		})
	}
}

func TestLogin_InfrastructureFailure(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{
		AttemptLoginFunc: func(context.Context, string, string, string) (*services.LoginResult, error) {
			return nil, errors.Join(models.ErrInternalServer, errors.New("redis: connection refused"))
		},
	})

	w := httptest.NewRecorder()
	h.Login(w, NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "a@b.test", Password: "x"}))

	resp := AssertErrorResponse(t, w, http.StatusInternalServerError, "internal_error")
	assert.NotContains(t, resp.Message, "redis")
}

func TestRegister_Created(t *testing.T) {
	var got services.RegisterInput
	h := newTestAuthHandler(&MockAuthService{
		RegisterFunc: func(_ context.Context, in services.RegisterInput) (*models.PublicUser, error) {
			got = in
			return &models.PublicUser{ID: "user-2", Email: in.Email, Role: in.Role}, nil
		},
	})

	spec := "Paediatrics"
	w := httptest.NewRecorder()
	h.Register(w, NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Name: "Dr. Spock", Email: "spock@clinic.test", Password: "Vulcan123", Role: "doctor", Specialization: &spec,
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User registered successfully")
	require.NotNil(t, got.Specialization)
	assert.Equal(t, "Paediatrics", *got.Specialization)
}

func TestRegister_InvalidRole(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{})

	w := httptest.NewRecorder()
	h.Register(w, NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Name: "A", Email: "a@clinic.test", Password: "Password9", Role: "admin",
	}))

	resp := AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.Contains(t, resp.Message, "role")
}

func TestRegister_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", models.ErrConflict, http.StatusConflict, "conflict"},
		{"weak password", &pkgauth.PasswordValidationError{Errors: []string{"is too common"}}, http.StatusBadRequest, "weak_password"},
		{"bad specialization", errors.Join(models.ErrBadRequest, errors.New("only doctors")), http.StatusBadRequest, "bad_request"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
		{"unexpected not found", models.ErrNotFound, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(&MockAuthService{
				RegisterFunc: func(context.Context, services.RegisterInput) (*models.PublicUser, error) {
					return nil, tt.err
				},
			})
			w := httptest.NewRecorder()
			h.Register(w, NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
				Name: "A", Email: "a@clinic.test", Password: "Password9", Role: "pharmacist",
			}))
			AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestRegister_BadRequestKeepsDetail(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{
		RegisterFunc: func(context.Context, services.RegisterInput) (*models.PublicUser, error) {
			return nil, fmt.Errorf("%w: only doctors can have a specialization", models.ErrBadRequest)
		},
	})
	w := httptest.NewRecorder()
	h.Register(w, NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Name: "A", Email: "a@clinic.test", Password: "Password9", Role: "pharmacist",
	}))

	resp := AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "only doctors can have a specialization", resp.Message)
}

func TestLogout(t *testing.T) {
	calls := 0
	h := newTestAuthHandler(&MockAuthService{
		LogoutFunc: func(_ context.Context, userID string) error {
			assert.Equal(t, "user-1", userID)
			calls++
			return nil
		},
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.Logout(w, WithAuthContext(NewTestRequest(t, http.MethodPost, "/auth/logout", nil), "user-1", models.RoleDoctor))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestLogout_NoClaims(t *testing.T) {
	h := newTestAuthHandler(&MockAuthService{})

	w := httptest.NewRecorder()
	h.Logout(w, NewTestRequest(t, http.MethodPost, "/auth/logout", nil))

	AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "5 hours", humanDuration(5*time.Hour))
	assert.Equal(t, "30 minutes", humanDuration(30*time.Minute))
	assert.Equal(t, "1m30s", humanDuration(90*time.Second))
}

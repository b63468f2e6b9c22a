package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		require.NotNil(t, claims)
		assert.Equal(t, wantUser, claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code, resp.Error)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.GenerateToken("user-7", models.RoleReceptionist)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	AuthMiddleware(tm)(okHandler(t, "user-7")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/patients/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be reached")
			})).ServeHTTP(w, req)

			assertErrorCode(t, w, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status int
	}{
		{"doctor allowed", models.RoleDoctor, http.StatusOK},
		{"receptionist allowed", models.RoleReceptionist, http.StatusOK},
		{"pharmacist forbidden", models.RolePharmacist, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/patients/search", nil)
			req = req.WithContext(WithClaims(req.Context(), &models.TokenClaims{UserID: "u", Role: tt.role}))
			w := httptest.NewRecorder()

			RequireRole(models.RoleDoctor, models.RoleReceptionist)(okHandler(t, "u")).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	req := httptest.NewRequest("GET", "/patients/search", nil)
	w := httptest.NewRecorder()

	RequireRole(models.RoleDoctor)(http.NotFoundHandler()).ServeHTTP(w, req)

	assertErrorCode(t, w, http.StatusUnauthorized, "unauthorized")
}

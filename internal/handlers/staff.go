package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/models"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
)

type StaffService interface {
	Get(ctx context.Context, id string) (*models.PublicUser, error)
	ListByRole(ctx context.Context, role string) ([]*models.PublicUser, error)
}

type StaffHandler struct {
	service StaffService
}

func NewStaffHandler(service StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// Me returns the caller's profile
// @Router /staff/me [get]
func (h *StaffHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	user, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// List returns staff with ?role=, defaulting to doctors
// @Router /staff [get]
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = models.RoleDoctor
	}

	users, err := h.service.ListByRole(r.Context(), role)
	if err != nil {
		writeServiceError(w, err, "No staff found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, users)
}

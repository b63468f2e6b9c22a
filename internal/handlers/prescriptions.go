package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/models"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

type PrescriptionService interface {
	Write(ctx context.Context, doctorID, patientRef string, meds []models.Medication) (*models.Prescription, error)
	ForPatient(ctx context.Context, patientRef string) ([]*models.Prescription, error)
	SendToPharmacy(ctx context.Context, id string) (*models.Prescription, error)
}

type PrescriptionHandler struct {
	service PrescriptionService
}

func NewPrescriptionHandler(service PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

type CreatePrescriptionRequest struct {
	PatientID   string              `json:"patientId" validate:"required"`
	Medications []models.Medication `json:"medications" validate:"required,min=1,dive"`
}

// Create writes a prescription as the calling doctor
// @Router /prescriptions [post]
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req CreatePrescriptionRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	rx, err := h.service.Write(r.Context(), claims.UserID, req.PatientID, req.Medications)
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, rx)
}

// @Router /prescriptions/patient/{patientId} [get]
func (h *PrescriptionHandler) ForPatient(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ForPatient(r.Context(), chi.URLParam(r, "patientId"))
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// @Router /prescriptions/{id}/send [post]
func (h *PrescriptionHandler) Send(w http.ResponseWriter, r *http.Request) {
	rx, err := h.service.SendToPharmacy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Prescription not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, rx)
}

package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

type PatientService interface {
	Register(ctx context.Context, p *models.Patient) (*models.Patient, error)
	Search(ctx context.Context, term string) ([]*models.Patient, error)
	Get(ctx context.Context, ref string) (*models.Patient, error)
	Update(ctx context.Context, ref string, upd *models.PatientUpdate) (*models.Patient, error)
	CheckIn(ctx context.Context, ref, reason string) (*models.CheckIn, error)
	CheckIns(ctx context.Context, ref string) ([]*models.CheckIn, error)
	QRCode(ctx context.Context, ref string) ([]byte, error)
}

type PatientHandler struct {
	service PatientService
}

func NewPatientHandler(service PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

type CreatePatientRequest struct {
	Name           string                       `json:"name" validate:"required"`
	Phone          string                       `json:"phone" validate:"required"`
	Email          *string                      `json:"email" validate:"omitempty,email"`
	Age            *int                         `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender         *string                      `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Weight         *string                      `json:"weight"`
	Address        *string                      `json:"address"`
	MedicalHistory []models.MedicalHistoryEntry `json:"medicalHistory" validate:"omitempty,dive"`
}

type UpdatePatientRequest struct {
	Name           *string                      `json:"name" validate:"omitempty,min=1"`
	Phone          *string                      `json:"phone" validate:"omitempty,min=1"`
	Email          *string                      `json:"email" validate:"omitempty,email"`
	Age            *int                         `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender         *string                      `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Weight         *string                      `json:"weight"`
	Address        *string                      `json:"address"`
	MedicalHistory []models.MedicalHistoryEntry `json:"medicalHistory" validate:"omitempty,dive"`
}

type CheckInRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Create registers a patient
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	patient, err := h.service.Register(r.Context(), &models.Patient{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Age:            req.Age,
		Gender:         req.Gender,
		Weight:         req.Weight,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		var dup *services.DuplicatePatientError
		if errors.As(err, &dup) {
			pkghttp.WriteErrorWithDetails(w, http.StatusConflict, "conflict", dup.Error(), dup.Existing)
			return
		}
		writeServiceError(w, err, "Patient not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, patient)
}

// Search finds patients by code, name or phone
// @Router /patients/search [get]
func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, err, "No patients found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, patients)
}

// @Router /patients/{id} [get]
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, patient)
}

// @Router /patients/{id} [put]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePatientRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	patient, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &models.PatientUpdate{
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		Weight:         req.Weight,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, patient)
}

// CheckIn records an arrival; the body is optional
// @Router /patients/{id}/checkin [post]
func (h *PatientHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	checkIn, err := h.service.CheckIn(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, checkIn)
}

// @Router /patients/{id}/checkins [get]
func (h *PatientHandler) CheckIns(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.CheckIns(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// QRCode serves the patient code as a PNG
// @Router /patients/{id}/qrcode [get]
func (h *PatientHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.QRCode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

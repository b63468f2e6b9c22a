package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

type AppointmentService interface {
	Book(ctx context.Context, in services.BookingInput) (*models.Appointment, error)
	Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) (*models.Appointment, error)
	ForPatient(ctx context.Context, patientRef string) ([]*models.Appointment, error)
	ForDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error)
}

type AppointmentHandler struct {
	service AppointmentService
}

func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type BookAppointmentRequest struct {
	PatientID string  `json:"patientId" validate:"required"`
	DoctorID  string  `json:"doctorId" validate:"required,uuid"`
	Date      string  `json:"date" validate:"required"`
	TimeSlot  string  `json:"timeSlot" validate:"required"`
	Reason    *string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"timeSlot" validate:"required"`
}

// @Router /appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	appt, err := h.service.Book(r.Context(), services.BookingInput{
		PatientRef: req.PatientID,
		DoctorID:   req.DoctorID,
		Date:       date,
		TimeSlot:   req.TimeSlot,
		Reason:     req.Reason,
	})
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, appt)
}

// @Router /appointments/{id}/reschedule [put]
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	appt, err := h.service.Reschedule(r.Context(), chi.URLParam(r, "id"), date, req.TimeSlot)
	if err != nil {
		writeServiceError(w, err, "Appointment not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, appt)
}

// Cancel soft-cancels an appointment
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Appointment not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "Appointment cancelled",
		"appointment": appt,
	})
}

// @Router /appointments/patient/{patientId} [get]
func (h *AppointmentHandler) ForPatient(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ForPatient(r.Context(), chi.URLParam(r, "patientId"))
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// @Router /appointments/doctor/{doctorId} [get]
func (h *AppointmentHandler) ForDoctor(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ForDoctor(r.Context(), chi.URLParam(r, "doctorId"))
	if err != nil {
		writeServiceError(w, err, "Doctor not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or RFC 3339")
}

package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

type PaymentService interface {
	Record(ctx context.Context, in services.PaymentInput) (*models.Payment, error)
	Get(ctx context.Context, id string) (*models.Payment, error)
}

type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePaymentRequest takes the amount in rupees, e.g. 499.50
type CreatePaymentRequest struct {
	PatientID     string  `json:"patientId" validate:"required"`
	AppointmentID string  `json:"appointmentId" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=cash card UPI"`
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=successful failed pending"`
}

// Create records a payment collected at the desk
// @Router /payments [post]
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	minor, ok := toMinorUnits(req.Amount)
	if !ok {
		pkghttp.WriteBadRequest(w, "amount: must have at most two decimal places")
		return
	}

	payment, err := h.service.Record(r.Context(), services.PaymentInput{
		PatientRef:    req.PatientID,
		AppointmentID: req.AppointmentID,
		AmountMinor:   minor,
		Method:        req.PaymentMethod,
		Status:        req.Status,
	})
	if err != nil {
		writeServiceError(w, err, "Patient not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, payment)
}

// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Payment not found")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, payment)
}

func toMinorUnits(amount float64) (int64, bool) {
	scaled := amount * 100
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-6 {
		return 0, false
	}
	return int64(rounded), true
}

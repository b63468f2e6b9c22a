package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	"github.com/stretchr/testify/assert"
)

const testAppointmentID = "5b0e7c0a-3a63-4d9c-8d9b-8a1d6f0d2c11"

func TestPaymentHandler_Create(t *testing.T) {
	var got services.PaymentInput
	svc := &MockPaymentService{
		RecordFunc: func(_ context.Context, in services.PaymentInput) (*models.Payment, error) {
			got = in
			return &models.Payment{ID: "payment-1", AmountMinor: in.AmountMinor, Method: in.Method, Status: models.PaymentSuccessful}, nil
		},
	}

	w := httptest.NewRecorder()
	NewPaymentHandler(svc).Create(w, NewTestRequest(t, http.MethodPost, "/payments", CreatePaymentRequest{
		PatientID: "PAT-1740819600000", AppointmentID: testAppointmentID, Amount: 499.5, PaymentMethod: "UPI",
	}))

	var resp models.Payment
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, int64(49950), got.AmountMinor)
	assert.Equal(t, "UPI", got.Method)
	assert.Empty(t, got.Status, "status defaults in the service")
	assert.Equal(t, "payment-1", resp.ID)
}

func TestPaymentHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body CreatePaymentRequest
	}{
		{"missing patient", CreatePaymentRequest{AppointmentID: testAppointmentID, Amount: 10, PaymentMethod: "cash"}},
		{"appointment not a uuid", CreatePaymentRequest{PatientID: "PAT-1", AppointmentID: "appt-1", Amount: 10, PaymentMethod: "cash"}},
		{"zero amount", CreatePaymentRequest{PatientID: "PAT-1", AppointmentID: testAppointmentID, PaymentMethod: "cash"}},
		{"fractional paise", CreatePaymentRequest{PatientID: "PAT-1", AppointmentID: testAppointmentID, Amount: 10.005, PaymentMethod: "cash"}},
		{"gateway method", CreatePaymentRequest{PatientID: "PAT-1", AppointmentID: testAppointmentID, Amount: 10, PaymentMethod: "razorpay"}},
		{"unknown status", CreatePaymentRequest{PatientID: "PAT-1", AppointmentID: testAppointmentID, Amount: 10, PaymentMethod: "card", Status: "paid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{
				RecordFunc: func(context.Context, services.PaymentInput) (*models.Payment, error) {
					t.Fatal("service should not be called")
					return nil, nil
				},
			}
			w := httptest.NewRecorder()
			NewPaymentHandler(svc).Create(w, NewTestRequest(t, http.MethodPost, "/payments", tt.body))
			AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
		})
	}
}

func TestPaymentHandler_CreateServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"patient missing", fmt.Errorf("%w: patient not found", models.ErrNotFound), http.StatusNotFound, "not_found"},
		{"foreign appointment", fmt.Errorf("%w: appointment belongs to another patient", models.ErrBadRequest), http.StatusBadRequest, "bad_request"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{
				RecordFunc: func(context.Context, services.PaymentInput) (*models.Payment, error) { return nil, tt.err },
			}
			w := httptest.NewRecorder()
			NewPaymentHandler(svc).Create(w, NewTestRequest(t, http.MethodPost, "/payments", CreatePaymentRequest{
				PatientID: "PAT-1", AppointmentID: testAppointmentID, Amount: 100, PaymentMethod: "cash",
			}))
			AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestPaymentHandler_Get(t *testing.T) {
	checkIn := "checkin-1"
	svc := &MockPaymentService{
		GetFunc: func(_ context.Context, id string) (*models.Payment, error) {
			if id == "payment-1" {
				return &models.Payment{ID: id, CheckInID: &checkIn}, nil
			}
			return nil, models.ErrNotFound
		},
	}
	h := NewPaymentHandler(svc)

	w := httptest.NewRecorder()
	h.Get(w, WithURLParams(NewTestRequest(t, http.MethodGet, "/payments/payment-1", nil), map[string]string{"id": "payment-1"}))
	var resp models.Payment
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "checkin-1", *resp.CheckInID)

	w = httptest.NewRecorder()
	h.Get(w, WithURLParams(NewTestRequest(t, http.MethodGet, "/payments/nope", nil), map[string]string{"id": "nope"}))
	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

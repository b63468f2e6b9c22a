package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/frontdesk/internal/models"
)

const defaultCurrency = "INR"

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) (*models.Payment, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
}

type appointmentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

// PaymentInput is a fee taken at the desk. Status defaults to successful
// since cash, card and UPI are settled in person.
type PaymentInput struct {
	PatientRef    string
	AppointmentID string
	AmountMinor   int64
	Method        string
	Status        string
}

type PaymentService struct {
	repo         PaymentRepository
	patients     patientResolver
	appointments appointmentLookup
	logger       *slog.Logger
}

func NewPaymentService(repo PaymentRepository, patients patientResolver, appointments appointmentLookup, logger *slog.Logger) *PaymentService {
	return &PaymentService{repo: repo, patients: patients, appointments: appointments, logger: logger}
}

// Record stores a payment against the patient's appointment. The
// repository links it to the patient's latest check-in.
func (s *PaymentService) Record(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if in.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrBadRequest)
	}
	if !validPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: payment method must be cash, card or UPI", models.ErrBadRequest)
	}
	if in.Status == "" {
		in.Status = models.PaymentSuccessful
	}
	if !validPaymentStatus(in.Status) {
		return nil, fmt.Errorf("%w: invalid payment status", models.ErrBadRequest)
	}

	patient, err := s.patients.GetByRef(ctx, in.PatientRef)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: patient not found", models.ErrNotFound)
		}
		return nil, s.failure("failed to load patient", err)
	}

	appt, err := s.appointments.GetByID(ctx, in.AppointmentID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: appointment not found", models.ErrBadRequest)
	}
	if err != nil {
		return nil, s.failure("failed to load appointment", err)
	}
	if appt.PatientID != patient.ID {
		return nil, fmt.Errorf("%w: appointment belongs to another patient", models.ErrBadRequest)
	}

	payment, err := s.repo.Create(ctx, &models.Payment{
		PatientID:     patient.ID,
		AppointmentID: appt.ID,
		AmountMinor:   in.AmountMinor,
		Currency:      defaultCurrency,
		Method:        in.Method,
		Status:        in.Status,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, err
		}
		return nil, s.failure("failed to record payment", err)
	}

	attrs := []any{
		slog.String("payment_id", payment.ID),
		slog.String("patient_id", patient.ID),
		slog.String("method", payment.Method),
		slog.String("status", payment.Status),
	}
	if payment.CheckInID != nil {
		attrs = append(attrs, slog.String("check_in_id", *payment.CheckInID))
	}
	s.logger.Info("payment recorded", attrs...)
	return payment, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, s.failure("failed to load payment", err)
	}
	return p, nil
}

func (s *PaymentService) failure(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
}

func validPaymentMethod(m string) bool {
	switch m {
	case models.PaymentCash, models.PaymentCard, models.PaymentUPI:
		return true
	}
	return false
}

func validPaymentStatus(st string) bool {
	switch st {
	case models.PaymentSuccessful, models.PaymentFailed, models.PaymentPending:
		return true
	}
	return false
}

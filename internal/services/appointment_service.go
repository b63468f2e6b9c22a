package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error)
}

// BookingInput describes a new appointment
type BookingInput struct {
	PatientRef string
	DoctorID   string
	Date       time.Time
	TimeSlot   string
	Reason     *string
}

type AppointmentService struct {
	repo     AppointmentRepository
	patients patientResolver
	users    UserRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewAppointmentService(repo AppointmentRepository, patients patientResolver, users UserRepository, notifier Notifier, logger *slog.Logger) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		patients: patients,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Book schedules an appointment with a doctor and emails the patient if
// they have an address on file.
func (s *AppointmentService) Book(ctx context.Context, in BookingInput) (*models.Appointment, error) {
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	if in.PatientRef == "" || in.DoctorID == "" || in.Date.IsZero() || in.TimeSlot == "" {
		return nil, fmt.Errorf("%w: patientId, doctorId, date and timeSlot are required", models.ErrBadRequest)
	}

	patient, err := s.patients.GetByRef(ctx, in.PatientRef)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: patient not found", models.ErrNotFound)
		}
		return nil, s.failure("failed to load patient", err)
	}

	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && doctor.Role != models.RoleDoctor) {
		return nil, fmt.Errorf("%w: doctor not found", models.ErrBadRequest)
	}
	if err != nil {
		return nil, s.failure("failed to load doctor", err)
	}

	appt, err := s.repo.Create(ctx, &models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      in.Date,
		TimeSlot:  in.TimeSlot,
		Status:    models.AppointmentScheduled,
		Reason:    in.Reason,
	})
	if err != nil {
		return nil, s.failure("failed to create appointment", err)
	}

	s.logger.Info("appointment booked",
		slog.String("appointment_id", appt.ID),
		slog.String("patient_id", patient.ID),
		slog.String("doctor_id", doctor.ID))

	if patient.Email != nil && s.notifier != nil {
		if err := s.notifier.SendAppointmentConfirmation(ctx, patient, doctor, appt); err != nil {
			s.logger.Warn("failed to send appointment confirmation",
				slog.String("appointment_id", appt.ID),
				slog.Any("error", err))
		}
	}

	return appt, nil
}

// Reschedule moves an open appointment; closed appointments yield ErrConflict
func (s *AppointmentService) Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error) {
	timeSlot = strings.TrimSpace(timeSlot)
	if date.IsZero() || timeSlot == "" {
		return nil, fmt.Errorf("%w: date and timeSlot are required", models.ErrBadRequest)
	}

	appt, err := s.repo.Reschedule(ctx, id, date, timeSlot)
	if err != nil {
		return nil, s.passOrFail("failed to reschedule appointment", err)
	}
	return appt, nil
}

// Cancel marks an open appointment as cancelled
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.repo.UpdateStatus(ctx, id, models.AppointmentCancelled)
	if err != nil {
		return nil, s.passOrFail("failed to cancel appointment", err)
	}
	s.logger.Info("appointment cancelled", slog.String("appointment_id", id))
	return appt, nil
}

func (s *AppointmentService) ForPatient(ctx context.Context, patientRef string) ([]*models.Appointment, error) {
	patient, err := s.patients.GetByRef(ctx, patientRef)
	if err != nil {
		return nil, s.passOrFail("failed to load patient", err)
	}
	list, err := s.repo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, s.failure("failed to list appointments", err)
	}
	return list, nil
}

func (s *AppointmentService) ForDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error) {
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, s.failure("failed to list appointments", err)
	}
	return list, nil
}

func (s *AppointmentService) passOrFail(msg string, err error) error {
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrBadRequest) {
		return err
	}
	return s.failure(msg, err)
}

func (s *AppointmentService) failure(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
}

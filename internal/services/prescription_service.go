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

type PrescriptionRepository interface {
	Create(ctx context.Context, p *models.Prescription) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*models.Prescription, error)
	MarkSent(ctx context.Context, id string) (*models.Prescription, error)
}

type PrescriptionService struct {
	repo     PrescriptionRepository
	patients patientResolver
	logger   *slog.Logger
	now      func() time.Time
}

func NewPrescriptionService(repo PrescriptionRepository, patients patientResolver, logger *slog.Logger, now func() time.Time) *PrescriptionService {
	if now == nil {
		now = time.Now
	}
	return &PrescriptionService{repo: repo, patients: patients, logger: logger, now: now}
}

// Write records a prescription by doctorID for the patient
func (s *PrescriptionService) Write(ctx context.Context, doctorID, patientRef string, meds []models.Medication) (*models.Prescription, error) {
	if len(meds) == 0 {
		return nil, fmt.Errorf("%w: at least one medication is required", models.ErrBadRequest)
	}
	for i, m := range meds {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" {
			return nil, fmt.Errorf("%w: medication %d needs a name and dosage", models.ErrBadRequest, i+1)
		}
	}

	patient, err := s.patients.GetByRef(ctx, patientRef)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: patient not found", models.ErrNotFound)
		}
		return nil, s.failure("failed to load patient", err)
	}

	rx, err := s.repo.Create(ctx, &models.Prescription{
		Code:        fmt.Sprintf("RX-%d", s.now().UnixMilli()),
		PatientID:   patient.ID,
		DoctorID:    doctorID,
		Medications: meds,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrBadRequest) {
			return nil, err
		}
		return nil, s.failure("failed to create prescription", err)
	}

	s.logger.Info("prescription written",
		slog.String("prescription_id", rx.ID),
		slog.String("patient_id", patient.ID),
		slog.String("doctor_id", doctorID))
	return rx, nil
}

func (s *PrescriptionService) ForPatient(ctx context.Context, patientRef string) ([]*models.Prescription, error) {
	patient, err := s.patients.GetByRef(ctx, patientRef)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, s.failure("failed to load patient", err)
	}
	list, err := s.repo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, s.failure("failed to list prescriptions", err)
	}
	return list, nil
}

// SendToPharmacy flags the prescription for dispensing
func (s *PrescriptionService) SendToPharmacy(ctx context.Context, id string) (*models.Prescription, error) {
	rx, err := s.repo.MarkSent(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, s.failure("failed to send prescription", err)
	}
	s.logger.Info("prescription sent to pharmacy", slog.String("prescription_id", id))
	return rx, nil
}

func (s *PrescriptionService) failure(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
}

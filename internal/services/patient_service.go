package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/skip2/go-qrcode"
)

const (
	qrCodeSize     = 256
	checkInHistory = 20
)

// PatientRepository defines patient persistence
type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) (*models.Patient, error)
	GetByRef(ctx context.Context, ref string) (*models.Patient, error)
	GetByPhone(ctx context.Context, phone string) (*models.Patient, error)
	Search(ctx context.Context, term string) ([]*models.Patient, error)
	Update(ctx context.Context, id string, upd *models.PatientUpdate) (*models.Patient, error)
	CheckIn(ctx context.Context, patientID, reason string, at time.Time) (*models.CheckIn, error)
	ListCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckIn, error)
}

// patientResolver finds a patient by UUID or patient code
type patientResolver interface {
	GetByRef(ctx context.Context, ref string) (*models.Patient, error)
}

// DuplicatePatientError is returned when the phone is already registered
type DuplicatePatientError struct {
	Existing *models.Patient
}

func (e *DuplicatePatientError) Error() string {
	return "patient with this phone number already exists"
}

func (e *DuplicatePatientError) Is(target error) bool {
	return target == models.ErrConflict
}

type PatientService struct {
	repo   PatientRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewPatientService(repo PatientRepository, logger *slog.Logger, now func() time.Time) *PatientService {
	if now == nil {
		now = time.Now
	}
	return &PatientService{repo: repo, logger: logger, now: now}
}

// Register stores a new patient and assigns its patient code
func (s *PatientService) Register(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" || p.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", models.ErrBadRequest)
	}
	if err := validateGender(p.Gender); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByPhone(ctx, p.Phone)
	if err == nil {
		return nil, &DuplicatePatientError{Existing: existing}
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, s.failure("failed to check phone", err)
	}

	p.Code = fmt.Sprintf("PAT-%d", s.now().UnixMilli())
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, s.failure("failed to create patient", err)
	}

	s.logger.Info("patient registered", slog.String("patient_id", created.ID), slog.String("patient_code", created.Code))
	return created, nil
}

// Search requires a non-empty term; an empty result is ErrNotFound
func (s *PatientService) Search(ctx context.Context, term string) ([]*models.Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search query is required", models.ErrBadRequest)
	}

	patients, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, s.failure("failed to search patients", err)
	}
	if len(patients) == 0 {
		return nil, models.ErrNotFound
	}
	return patients, nil
}

func (s *PatientService) Get(ctx context.Context, ref string) (*models.Patient, error) {
	p, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, s.failure("failed to get patient", err)
	}
	return p, nil
}

func (s *PatientService) Update(ctx context.Context, ref string, upd *models.PatientUpdate) (*models.Patient, error) {
	if err := validateGender(upd.Gender); err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", models.ErrBadRequest)
	}
	if upd.Phone != nil && strings.TrimSpace(*upd.Phone) == "" {
		return nil, fmt.Errorf("%w: phone cannot be empty", models.ErrBadRequest)
	}

	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, p.ID, upd)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, s.failure("failed to update patient", err)
	}
	return updated, nil
}

// CheckIn records an arrival at the front desk
func (s *PatientService) CheckIn(ctx context.Context, ref, reason string) (*models.CheckIn, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.CheckIn(ctx, p.ID, strings.TrimSpace(reason), s.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, s.failure("failed to check in patient", err)
	}

	s.logger.Info("patient checked in", slog.String("patient_id", p.ID))
	return c, nil
}

func (s *PatientService) CheckIns(ctx context.Context, ref string) ([]*models.CheckIn, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListCheckIns(ctx, p.ID, checkInHistory)
	if err != nil {
		return nil, s.failure("failed to list check-ins", err)
	}
	return list, nil
}

// QRCode renders the patient code as a PNG
func (s *PatientService) QRCode(ctx context.Context, ref string) ([]byte, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(p.Code, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, s.failure("failed to render qr code", err)
	}
	return png, nil
}

func (s *PatientService) failure(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
}

func validateGender(g *string) error {
	if g == nil {
		return nil
	}
	switch *g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return nil
	}
	return fmt.Errorf("%w: gender must be Male, Female or Other", models.ErrBadRequest)
}

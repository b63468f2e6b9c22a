package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/frontdesk/internal/database"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/google/uuid"
)

type PrescriptionRepository struct {
	db database.Querier
}

func NewPrescriptionRepository(db *database.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db.Pool}
}

const prescriptionColumns = `id, prescription_code, patient_id, doctor_id, medications, sent_to_pharmacy, created_at, updated_at`

func scanPrescriptionRow(scanner rowScanner) (*models.Prescription, error) {
	var p models.Prescription
	err := scanner.Scan(
		&p.ID, &p.Code, &p.PatientID, &p.DoctorID, &p.Medications, &p.SentToPharmacy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if p.Medications == nil {
		p.Medications = []models.Medication{}
	}
	return &p, nil
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *models.Prescription) (*models.Prescription, error) {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO prescriptions (id, prescription_code, patient_id, doctor_id, medications, sent_to_pharmacy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + prescriptionColumns

	return scanPrescriptionRow(r.db.QueryRow(ctx, query,
		p.ID, p.Code, p.PatientID, p.DoctorID, p.Medications, p.SentToPharmacy, p.CreatedAt, p.UpdatedAt,
	))
}

func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]*models.Prescription, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return []*models.Prescription{}, nil
	}
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE patient_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescriptions: %w", err)
	}
	return collect(rows, scanPrescriptionRow)
}

// MarkSent flags the prescription as forwarded to the pharmacy
func (r *PrescriptionRepository) MarkSent(ctx context.Context, id string) (*models.Prescription, error) {
	query := `
		UPDATE prescriptions SET sent_to_pharmacy = TRUE, updated_at = $1
		WHERE id = $2
		RETURNING ` + prescriptionColumns
	return scanPrescriptionRow(r.db.QueryRow(ctx, query, time.Now().UTC(), id))
}

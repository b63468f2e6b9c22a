package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/frontdesk/internal/database"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const searchLimit = 50

type PatientRepository struct {
	db *database.DB
}

func NewPatientRepository(db *database.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

const patientColumns = `id, patient_code, name, age, gender, weight, phone, email, address,
	medical_history, last_visit, created_at, updated_at`

func scanPatientRow(scanner rowScanner) (*models.Patient, error) {
	var p models.Patient
	err := scanner.Scan(
		&p.ID, &p.Code, &p.Name, &p.Age, &p.Gender, &p.Weight, &p.Phone, &p.Email, &p.Address,
		&p.MedicalHistory, &p.LastVisit, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []models.MedicalHistoryEntry{}
	}
	return &p, nil
}

func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.MedicalHistory == nil {
		p.MedicalHistory = []models.MedicalHistoryEntry{}
	}

	query := `
		INSERT INTO patients (id, patient_code, name, age, gender, weight, phone, email, address,
			medical_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + patientColumns

	return scanPatientRow(r.db.Pool.QueryRow(ctx, query,
		p.ID, p.Code, p.Name, p.Age, p.Gender, p.Weight, p.Phone, p.Email, p.Address,
		p.MedicalHistory, p.CreatedAt, p.UpdatedAt,
	))
}

// GetByRef looks a patient up by UUID or by patient code
func (r *PatientRepository) GetByRef(ctx context.Context, ref string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE patient_code = $1`
	args := []any{ref}
	if _, err := uuid.Parse(ref); err == nil {
		query = `SELECT ` + patientColumns + ` FROM patients WHERE id::text = $1 OR patient_code = $1`
	}
	return scanPatientRow(r.db.Pool.QueryRow(ctx, query, args...))
}

func (r *PatientRepository) GetByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE phone = $1`
	return scanPatientRow(r.db.Pool.QueryRow(ctx, query, phone))
}

// Search matches code or name case-insensitively and phone exactly
func (r *PatientRepository) Search(ctx context.Context, term string) ([]*models.Patient, error) {
	pattern := "%" + escapeLike(term) + "%"
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE patient_code ILIKE $1 OR name ILIKE $1 OR phone = $2
		ORDER BY name
		LIMIT $3`

	rows, err := r.db.Pool.Query(ctx, query, pattern, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return collect(rows, scanPatientRow)
}

// Update applies the non-nil fields of upd
func (r *PatientRepository) Update(ctx context.Context, id string, upd *models.PatientUpdate) (*models.Patient, error) {
	query := `
		UPDATE patients SET
			name = COALESCE($1, name),
			age = COALESCE($2, age),
			gender = COALESCE($3, gender),
			weight = COALESCE($4, weight),
			phone = COALESCE($5, phone),
			email = COALESCE($6, email),
			address = COALESCE($7, address),
			medical_history = COALESCE($8, medical_history),
			updated_at = $9
		WHERE id = $10
		RETURNING ` + patientColumns

	var history any
	if upd.MedicalHistory != nil {
		history = upd.MedicalHistory
	}

	return scanPatientRow(r.db.Pool.QueryRow(ctx, query,
		upd.Name, upd.Age, upd.Gender, upd.Weight, upd.Phone, upd.Email, upd.Address,
		history, time.Now().UTC(), id,
	))
}

// CheckIn records a visit and bumps last_visit in one transaction
func (r *PatientRepository) CheckIn(ctx context.Context, patientID, reason string, at time.Time) (*models.CheckIn, error) {
	checkIn := &models.CheckIn{
		ID:          uuid.New().String(),
		PatientID:   patientID,
		Reason:      reason,
		CheckedInAt: at.UTC(),
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE patients SET last_visit = $1, updated_at = $1 WHERE id = $2`,
			checkIn.CheckedInAt, patientID)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO patient_check_ins (id, patient_id, reason, checked_in_at) VALUES ($1, $2, $3, $4)`,
			checkIn.ID, patientID, reason, checkIn.CheckedInAt)
		return database.MapPostgresError(err)
	})
	if err != nil {
		return nil, err
	}

	return checkIn, nil
}

func (r *PatientRepository) ListCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckIn, error) {
	query := `
		SELECT id, patient_id, reason, checked_in_at, payment_id::text
		FROM patient_check_ins
		WHERE patient_id = $1
		ORDER BY checked_in_at DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	return collect(rows, func(s rowScanner) (*models.CheckIn, error) {
		var c models.CheckIn
		if err := s.Scan(&c.ID, &c.PatientID, &c.Reason, &c.CheckedInAt, &c.PaymentID); err != nil {
			return nil, database.MapPostgresError(err)
		}
		return &c, nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

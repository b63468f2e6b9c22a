package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/frontdesk/internal/database"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/google/uuid"
)

type AppointmentRepository struct {
	db database.Querier
}

func NewAppointmentRepository(db *database.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db.Pool}
}

const appointmentColumns = `id, patient_id, doctor_id, date, time_slot, status, reason, created_at, updated_at`

func scanAppointmentRow(scanner rowScanner) (*models.Appointment, error) {
	var a models.Appointment
	err := scanner.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.TimeSlot, &a.Status, &a.Reason,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &a, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	a.ID = uuid.New().String()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = models.AppointmentScheduled
	}

	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time_slot, status, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + appointmentColumns

	return scanAppointmentRow(r.db.QueryRow(ctx, query,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.TimeSlot, a.Status, a.Reason, a.CreatedAt, a.UpdatedAt,
	))
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return scanAppointmentRow(r.db.QueryRow(ctx, query, id))
}

// Reschedule moves an open appointment; closed ones are left untouched and
// reported as ErrConflict.
func (r *AppointmentRepository) Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error) {
	query := `
		UPDATE appointments
		SET date = $1, time_slot = $2, status = $3, updated_at = $4
		WHERE id = $5 AND status NOT IN ($6, $7)
		RETURNING ` + appointmentColumns

	a, err := scanAppointmentRow(r.db.QueryRow(ctx, query,
		date, timeSlot, models.AppointmentRescheduled, time.Now().UTC(), id,
		models.AppointmentCancelled, models.AppointmentCompleted,
	))
	if errors.Is(err, models.ErrNotFound) {
		return nil, r.closedOrMissing(ctx, id)
	}
	return a, err
}

// UpdateStatus sets the status of an open appointment
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status NOT IN ($4, $5)
		RETURNING ` + appointmentColumns

	a, err := scanAppointmentRow(r.db.QueryRow(ctx, query,
		status, time.Now().UTC(), id, models.AppointmentCancelled, models.AppointmentCompleted,
	))
	if errors.Is(err, models.ErrNotFound) {
		return nil, r.closedOrMissing(ctx, id)
	}
	return a, err
}

func (r *AppointmentRepository) closedOrMissing(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: appointment is closed", models.ErrConflict)
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*models.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE patient_id = $1 ORDER BY date`, patientID)
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE doctor_id = $1 ORDER BY date`, doctorID)
}

func (r *AppointmentRepository) list(ctx context.Context, query string, arg string) ([]*models.Appointment, error) {
	if _, err := uuid.Parse(arg); err != nil {
		return []*models.Appointment{}, nil
	}
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	return collect(rows, scanAppointmentRow)
}

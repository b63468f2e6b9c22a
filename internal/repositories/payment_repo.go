package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/BradenHooton/frontdesk/internal/database"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, patient_id, appointment_id, amount_minor, currency, payment_method, status,
	check_in_id::text, created_at, updated_at`

func scanPaymentRow(scanner rowScanner) (*models.Payment, error) {
	var p models.Payment
	err := scanner.Scan(
		&p.ID, &p.PatientID, &p.AppointmentID, &p.AmountMinor, &p.Currency, &p.Method, &p.Status,
		&p.CheckInID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

// Create stores the payment and links it to the patient's most recent
// check-in, if there is one, in a single transaction.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	var created *models.Payment
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var checkInID string
		err := tx.QueryRow(ctx, `
			SELECT id::text FROM patient_check_ins
			WHERE patient_id = $1
			ORDER BY checked_in_at DESC
			LIMIT 1
			FOR UPDATE`, p.PatientID).Scan(&checkInID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			p.CheckInID = nil
		case err != nil:
			return database.MapPostgresError(err)
		default:
			p.CheckInID = &checkInID
		}

		created, err = scanPaymentRow(tx.QueryRow(ctx, `
			INSERT INTO payments (id, patient_id, appointment_id, amount_minor, currency, payment_method, status,
				check_in_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+paymentColumns,
			p.ID, p.PatientID, p.AppointmentID, p.AmountMinor, p.Currency, p.Method, p.Status,
			p.CheckInID, p.CreatedAt, p.UpdatedAt,
		))
		if err != nil {
			return err
		}

		if p.CheckInID != nil {
			_, err = tx.Exec(ctx, `UPDATE patient_check_ins SET payment_id = $1 WHERE id = $2`, p.ID, *p.CheckInID)
			return database.MapPostgresError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPaymentRow(r.db.Pool.QueryRow(ctx, query, id))
}

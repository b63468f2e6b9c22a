package services

import (
	"context"
	"testing"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescriptionService_Write(t *testing.T) {
	clock := newFakeClock()
	patient := newTestPatient()
	patients := &MockPatientRepository{
		GetByRefFunc: func(context.Context, string) (*models.Patient, error) { return patient, nil },
	}
	svc := NewPrescriptionService(&MockPrescriptionRepository{}, patients, discardLogger(), clock.Now)

	rx, err := svc.Write(context.Background(), "doctor-1", patient.Code, []models.Medication{
		{Name: "Amoxicillin", Dosage: "500mg", Instructions: "three times daily"},
	})
	require.NoError(t, err)

	assert.Equal(t, "RX-1740819600000", rx.Code)
	assert.Equal(t, patient.ID, rx.PatientID)
	assert.Equal(t, "doctor-1", rx.DoctorID)
	assert.False(t, rx.SentToPharmacy)
}

func TestPrescriptionService_WriteValidation(t *testing.T) {
	svc := NewPrescriptionService(&MockPrescriptionRepository{}, &MockPatientRepository{}, discardLogger(), nil)
	ctx := context.Background()

	_, err := svc.Write(ctx, "doctor-1", "PAT-1", nil)
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = svc.Write(ctx, "doctor-1", "PAT-1", []models.Medication{{Name: "Ibuprofen"}})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = svc.Write(ctx, "doctor-1", "PAT-1", []models.Medication{{Name: "Ibuprofen", Dosage: "200mg"}})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPrescriptionService_SendToPharmacy(t *testing.T) {
	repo := &MockPrescriptionRepository{
		MarkSentFunc: func(_ context.Context, id string) (*models.Prescription, error) {
			if id != "rx-1" {
				return nil, models.ErrNotFound
			}
			return &models.Prescription{ID: id, SentToPharmacy: true}, nil
		},
	}
	svc := NewPrescriptionService(repo, &MockPatientRepository{}, discardLogger(), nil)

	rx, err := svc.SendToPharmacy(context.Background(), "rx-1")
	require.NoError(t, err)
	assert.True(t, rx.SentToPharmacy)

	_, err = svc.SendToPharmacy(context.Background(), "rx-2")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

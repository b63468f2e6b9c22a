package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPrescriptionHandler_CreateUsesCallerAsDoctor(t *testing.T) {
	var gotDoctor string
	h := NewPrescriptionHandler(&MockPrescriptionService{
		WriteFunc: func(_ context.Context, doctorID, patientRef string, meds []models.Medication) (*models.Prescription, error) {
			gotDoctor = doctorID
			return &models.Prescription{ID: "rx-1", Code: "RX-1", PatientID: patientRef, DoctorID: doctorID, Medications: meds}, nil
		},
	})

	req := NewTestRequest(t, http.MethodPost, "/prescriptions", CreatePrescriptionRequest{
		PatientID:   "PAT-1",
		Medications: []models.Medication{{Name: "Amoxicillin", Dosage: "500mg"}},
	})
	w := httptest.NewRecorder()
	h.Create(w, WithAuthContext(req, "doctor-1", models.RoleDoctor))

	var resp models.Prescription
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "doctor-1", gotDoctor)
	assert.Equal(t, "RX-1", resp.Code)
}

func TestPrescriptionHandler_CreateValidation(t *testing.T) {
	h := NewPrescriptionHandler(&MockPrescriptionService{})

	tests := []struct {
		name  string
		req   CreatePrescriptionRequest
		field string
	}{
		{"no medications", CreatePrescriptionRequest{PatientID: "PAT-1"}, "medications"},
		{"missing dosage", CreatePrescriptionRequest{PatientID: "PAT-1", Medications: []models.Medication{{Name: "X"}}}, "medications[0].dosage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, WithAuthContext(NewTestRequest(t, http.MethodPost, "/prescriptions", tt.req), "doctor-1", models.RoleDoctor))
			resp := AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
			assert.Contains(t, resp.Message, tt.field)
		})
	}
}

func TestPrescriptionHandler_Send(t *testing.T) {
	h := NewPrescriptionHandler(&MockPrescriptionService{
		SendToPharmacyFunc: func(_ context.Context, id string) (*models.Prescription, error) {
			if id == "rx-1" {
				return &models.Prescription{ID: id, SentToPharmacy: true}, nil
			}
			return nil, models.ErrNotFound
		},
	})

	w := httptest.NewRecorder()
	h.Send(w, WithURLParams(httptest.NewRequest(http.MethodPost, "/prescriptions/rx-1/send", nil), map[string]string{"id": "rx-1"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sentToPharmacy":true`)

	w = httptest.NewRecorder()
	h.Send(w, WithURLParams(httptest.NewRequest(http.MethodPost, "/prescriptions/rx-2/send", nil), map[string]string{"id": "rx-2"}))
	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

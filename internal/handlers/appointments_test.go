package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	"github.com/stretchr/testify/assert"
)

const testDoctorID = "6f1c2b8e-4d2a-4c1e-9b7a-2f3d4e5a6b7c"

func TestAppointmentHandler_Book(t *testing.T) {
	var got services.BookingInput
	h := NewAppointmentHandler(&MockAppointmentService{
		BookFunc: func(_ context.Context, in services.BookingInput) (*models.Appointment, error) {
			got = in
			return &models.Appointment{ID: "appt-1", Status: models.AppointmentScheduled, Date: in.Date}, nil
		},
	})

	w := httptest.NewRecorder()
	h.Book(w, NewTestRequest(t, http.MethodPost, "/appointments", BookAppointmentRequest{
		PatientID: "PAT-1", DoctorID: testDoctorID, Date: "2025-03-04", TimeSlot: "10:30",
	}))

	var resp models.Appointment
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, models.AppointmentScheduled, resp.Status)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "PAT-1", got.PatientRef)
}

func TestAppointmentHandler_BookBadDate(t *testing.T) {
	h := NewAppointmentHandler(&MockAppointmentService{})

	w := httptest.NewRecorder()
	h.Book(w, NewTestRequest(t, http.MethodPost, "/appointments", BookAppointmentRequest{
		PatientID: "PAT-1", DoctorID: testDoctorID, Date: "next tuesday", TimeSlot: "10:30",
	}))

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestAppointmentHandler_BookDoctorMissing(t *testing.T) {
	h := NewAppointmentHandler(&MockAppointmentService{
		BookFunc: func(context.Context, services.BookingInput) (*models.Appointment, error) {
			return nil, models.ErrBadRequest
		},
	})

	w := httptest.NewRecorder()
	h.Book(w, NewTestRequest(t, http.MethodPost, "/appointments", BookAppointmentRequest{
		PatientID: "PAT-1", DoctorID: testDoctorID, Date: "2025-03-04T10:30:00Z", TimeSlot: "10:30",
	}))

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestAppointmentHandler_RescheduleClosed(t *testing.T) {
	h := NewAppointmentHandler(&MockAppointmentService{
		RescheduleFunc: func(context.Context, string, time.Time, string) (*models.Appointment, error) {
			return nil, models.ErrConflict
		},
	})

	req := NewTestRequest(t, http.MethodPut, "/appointments/a1/reschedule", RescheduleRequest{Date: "2025-03-05", TimeSlot: "11:00"})
	w := httptest.NewRecorder()
	h.Reschedule(w, WithURLParams(req, map[string]string{"id": "a1"}))

	AssertErrorResponse(t, w, http.StatusConflict, "conflict")
}

func TestAppointmentHandler_Cancel(t *testing.T) {
	h := NewAppointmentHandler(&MockAppointmentService{
		CancelFunc: func(_ context.Context, id string) (*models.Appointment, error) {
			return &models.Appointment{ID: id, Status: models.AppointmentCancelled}, nil
		},
	})

	w := httptest.NewRecorder()
	h.Cancel(w, WithURLParams(httptest.NewRequest(http.MethodDelete, "/appointments/a1", nil), map[string]string{"id": "a1"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Cancelled"`)
}

func TestAppointmentHandler_Lists(t *testing.T) {
	h := NewAppointmentHandler(&MockAppointmentService{
		ForDoctorFunc: func(_ context.Context, doctorID string) ([]*models.Appointment, error) {
			return []*models.Appointment{{ID: "a1", DoctorID: doctorID}}, nil
		},
	})

	w := httptest.NewRecorder()
	h.ForDoctor(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/appointments/doctor/d1", nil), map[string]string{"doctorId": "d1"}))
	var list []models.Appointment
	AssertJSONResponse(t, w, http.StatusOK, &list)
	assert.Len(t, list, 1)

	w = httptest.NewRecorder()
	h.ForPatient(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/appointments/patient/p1", nil), map[string]string{"patientId": "p1"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

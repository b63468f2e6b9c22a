package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with a JSON body
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext attaches token claims as AuthMiddleware would
func WithAuthContext(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), &models.TokenClaims{UserID: userID, Role: role}))
}

// WithURLParams sets chi route parameters on req
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks the status and decodes the JSON body into target
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status and machine-readable error code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface
type MockAuthService struct {
	AttemptLoginFunc func(ctx context.Context, email, password, ip string) (*services.LoginResult, error)
	RegisterFunc     func(ctx context.Context, in services.RegisterInput) (*models.PublicUser, error)
	LogoutFunc       func(ctx context.Context, userID string) error
}

func (m *MockAuthService) AttemptLogin(ctx context.Context, email, password, ip string) (*services.LoginResult, error) {
	if m.AttemptLoginFunc != nil {
		return m.AttemptLoginFunc(ctx, email, password, ip)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.PublicUser, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

// MockPatientService implements PatientService
type MockPatientService struct {
	RegisterFunc func(ctx context.Context, p *models.Patient) (*models.Patient, error)
	SearchFunc   func(ctx context.Context, term string) ([]*models.Patient, error)
	GetFunc      func(ctx context.Context, ref string) (*models.Patient, error)
	UpdateFunc   func(ctx context.Context, ref string, upd *models.PatientUpdate) (*models.Patient, error)
	CheckInFunc  func(ctx context.Context, ref, reason string) (*models.CheckIn, error)
	CheckInsFunc func(ctx context.Context, ref string) ([]*models.CheckIn, error)
	QRCodeFunc   func(ctx context.Context, ref string) ([]byte, error)
}

func (m *MockPatientService) Register(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, p)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPatientService) Search(ctx context.Context, term string) ([]*models.Patient, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientService) Get(ctx context.Context, ref string) (*models.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ref)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientService) Update(ctx context.Context, ref string, upd *models.PatientUpdate) (*models.Patient, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ref, upd)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientService) CheckIn(ctx context.Context, ref, reason string) (*models.CheckIn, error) {
	if m.CheckInFunc != nil {
		return m.CheckInFunc(ctx, ref, reason)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientService) CheckIns(ctx context.Context, ref string) ([]*models.CheckIn, error) {
	if m.CheckInsFunc != nil {
		return m.CheckInsFunc(ctx, ref)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientService) QRCode(ctx context.Context, ref string) ([]byte, error) {
	if m.QRCodeFunc != nil {
		return m.QRCodeFunc(ctx, ref)
	}
	return nil, models.ErrNotFound
}

// MockAppointmentService implements AppointmentService
type MockAppointmentService struct {
	BookFunc       func(ctx context.Context, in services.BookingInput) (*models.Appointment, error)
	RescheduleFunc func(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error)
	CancelFunc     func(ctx context.Context, id string) (*models.Appointment, error)
	ForPatientFunc func(ctx context.Context, patientRef string) ([]*models.Appointment, error)
	ForDoctorFunc  func(ctx context.Context, doctorID string) ([]*models.Appointment, error)
}

func (m *MockAppointmentService) Book(ctx context.Context, in services.BookingInput) (*models.Appointment, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAppointmentService) Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error) {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, date, timeSlot)
	}
	return nil, models.ErrNotFound
}

func (m *MockAppointmentService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAppointmentService) ForPatient(ctx context.Context, patientRef string) ([]*models.Appointment, error) {
	if m.ForPatientFunc != nil {
		return m.ForPatientFunc(ctx, patientRef)
	}
	return []*models.Appointment{}, nil
}

func (m *MockAppointmentService) ForDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error) {
	if m.ForDoctorFunc != nil {
		return m.ForDoctorFunc(ctx, doctorID)
	}
	return []*models.Appointment{}, nil
}

// MockPrescriptionService implements PrescriptionService
type MockPrescriptionService struct {
	WriteFunc          func(ctx context.Context, doctorID, patientRef string, meds []models.Medication) (*models.Prescription, error)
	ForPatientFunc     func(ctx context.Context, patientRef string) ([]*models.Prescription, error)
	SendToPharmacyFunc func(ctx context.Context, id string) (*models.Prescription, error)
}

func (m *MockPrescriptionService) Write(ctx context.Context, doctorID, patientRef string, meds []models.Medication) (*models.Prescription, error) {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, doctorID, patientRef, meds)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPrescriptionService) ForPatient(ctx context.Context, patientRef string) ([]*models.Prescription, error) {
	if m.ForPatientFunc != nil {
		return m.ForPatientFunc(ctx, patientRef)
	}
	return []*models.Prescription{}, nil
}

func (m *MockPrescriptionService) SendToPharmacy(ctx context.Context, id string) (*models.Prescription, error) {
	if m.SendToPharmacyFunc != nil {
		return m.SendToPharmacyFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockStaffService implements StaffService
type MockStaffService struct {
	GetFunc        func(ctx context.Context, id string) (*models.PublicUser, error)
	ListByRoleFunc func(ctx context.Context, role string) ([]*models.PublicUser, error)
}

func (m *MockStaffService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockStaffService) ListByRole(ctx context.Context, role string) ([]*models.PublicUser, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.PublicUser{}, nil
}

// MockPaymentService implements PaymentService
type MockPaymentService struct {
	RecordFunc func(ctx context.Context, in services.PaymentInput) (*models.Payment, error)
	GetFunc    func(ctx context.Context, id string) (*models.Payment, error)
}

func (m *MockPaymentService) Record(ctx context.Context, in services.PaymentInput) (*models.Payment, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

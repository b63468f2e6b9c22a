package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/cache"
	"github.com/BradenHooton/frontdesk/internal/models"
	pkgauth "github.com/BradenHooton/frontdesk/pkg/auth"
	pkglogger "github.com/BradenHooton/frontdesk/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-that-is-at-least-32-characters-long"

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

// MockNotifier records notifications
type MockNotifier struct {
	mu         sync.Mutex
	Blocked    []*models.BlockRecord
	Confirmed  []*models.Appointment
	BlockErr   error
	ConfirmErr error
	// Release, when set, holds NotifyAccountBlocked until it is closed
	Release chan struct{}
}

func (m *MockNotifier) NotifyAccountBlocked(ctx context.Context, _ *models.User, rec *models.BlockRecord) error {
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocked = append(m.Blocked, rec)
	return m.BlockErr
}

// BlockedCount reports how many lockout notifications were delivered
func (m *MockNotifier) BlockedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Blocked)
}

func (m *MockNotifier) SendAppointmentConfirmation(_ context.Context, _ *models.Patient, _ *models.User, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Confirmed = append(m.Confirmed, appt)
	return m.ConfirmErr
}

// MockPatientRepository implements PatientRepository for testing
type MockPatientRepository struct {
	CreateFunc       func(ctx context.Context, p *models.Patient) (*models.Patient, error)
	GetByRefFunc     func(ctx context.Context, ref string) (*models.Patient, error)
	GetByPhoneFunc   func(ctx context.Context, phone string) (*models.Patient, error)
	SearchFunc       func(ctx context.Context, term string) ([]*models.Patient, error)
	UpdateFunc       func(ctx context.Context, id string, upd *models.PatientUpdate) (*models.Patient, error)
	CheckInFunc      func(ctx context.Context, patientID, reason string, at time.Time) (*models.CheckIn, error)
	ListCheckInsFunc func(ctx context.Context, patientID string, limit int) ([]*models.CheckIn, error)
}

func (m *MockPatientRepository) Create(ctx context.Context, p *models.Patient) (*models.Patient, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = "patient-1"
	return p, nil
}

func (m *MockPatientRepository) GetByRef(ctx context.Context, ref string) (*models.Patient, error) {
	if m.GetByRefFunc != nil {
		return m.GetByRefFunc(ctx, ref)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientRepository) GetByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientRepository) Search(ctx context.Context, term string) ([]*models.Patient, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term)
	}
	return []*models.Patient{}, nil
}

func (m *MockPatientRepository) Update(ctx context.Context, id string, upd *models.PatientUpdate) (*models.Patient, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil, models.ErrNotFound
}

func (m *MockPatientRepository) CheckIn(ctx context.Context, patientID, reason string, at time.Time) (*models.CheckIn, error) {
	if m.CheckInFunc != nil {
		return m.CheckInFunc(ctx, patientID, reason, at)
	}
	return &models.CheckIn{ID: "checkin-1", PatientID: patientID, Reason: reason, CheckedInAt: at}, nil
}

func (m *MockPatientRepository) ListCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckIn, error) {
	if m.ListCheckInsFunc != nil {
		return m.ListCheckInsFunc(ctx, patientID, limit)
	}
	return []*models.CheckIn{}, nil
}

// MockAppointmentRepository implements AppointmentRepository for testing
type MockAppointmentRepository struct {
	CreateFunc        func(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Appointment, error)
	RescheduleFunc    func(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error)
	UpdateStatusFunc  func(ctx context.Context, id, status string) (*models.Appointment, error)
	ListByPatientFunc func(ctx context.Context, patientID string) ([]*models.Appointment, error)
	ListByDoctorFunc  func(ctx context.Context, doctorID string) ([]*models.Appointment, error)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	a.ID = "appt-1"
	return a, nil
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAppointmentRepository) Reschedule(ctx context.Context, id string, date time.Time, timeSlot string) (*models.Appointment, error) {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, date, timeSlot)
	}
	return nil, models.ErrNotFound
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrNotFound
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*models.Appointment, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return []*models.Appointment{}, nil
}

func (m *MockAppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*models.Appointment, error) {
	if m.ListByDoctorFunc != nil {
		return m.ListByDoctorFunc(ctx, doctorID)
	}
	return []*models.Appointment{}, nil
}

// MockPrescriptionRepository implements PrescriptionRepository for testing
type MockPrescriptionRepository struct {
	CreateFunc        func(ctx context.Context, p *models.Prescription) (*models.Prescription, error)
	ListByPatientFunc func(ctx context.Context, patientID string) ([]*models.Prescription, error)
	MarkSentFunc      func(ctx context.Context, id string) (*models.Prescription, error)
}

func (m *MockPrescriptionRepository) Create(ctx context.Context, p *models.Prescription) (*models.Prescription, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = "rx-1"
	return p, nil
}

func (m *MockPrescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]*models.Prescription, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return []*models.Prescription{}, nil
}

func (m *MockPrescriptionRepository) MarkSent(ctx context.Context, id string) (*models.Prescription, error) {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// brokenStore fails every call with err
type brokenStore struct {
	err error
}

func (b brokenStore) Get(context.Context, string) (string, error)                { return "", b.err }
func (b brokenStore) Incr(context.Context, string) (int64, error)                { return 0, b.err }
func (b brokenStore) Expire(context.Context, string, time.Duration) error        { return b.err }
func (b brokenStore) SetEx(context.Context, string, string, time.Duration) error { return b.err }
func (b brokenStore) Del(context.Context, ...string) error                       { return b.err }
func (b brokenStore) Ping(context.Context) error                                 { return b.err }

// NewTestUser creates a user whose password is password, hashed at the
// minimum bcrypt cost.
func NewTestUser(id, email, password string) *models.User {
	hash, err := pkgauth.HashPasswordWithCost(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return &models.User{
		ID:           id,
		Name:         "Dr. Test",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleDoctor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// gateFixture wires an AuthService to an in-memory cache and a fake clock
type gateFixture struct {
	clock    *fakeClock
	store    *cache.MemoryStore
	tm       *auth.TokenManager
	notifier *MockNotifier
	service  *AuthService
}

func newGateFixture(users UserRepository) *gateFixture {
	clock := newFakeClock()
	store := cache.NewMemoryStore(clock.Now)
	tm := auth.NewTokenManager(testJWTSecret, 30*24*time.Hour).WithClock(clock.Now)
	notifier := &MockNotifier{}
	logger := discardLogger()

	return &gateFixture{
		clock:    clock,
		store:    store,
		tm:       tm,
		notifier: notifier,
		service: NewAuthService(
			users,
			NewAttemptTracker(store, DefaultLockoutPolicy(), clock.Now),
			NewSessionService(store, tm, logger),
			notifier,
			nil,
			logger,
			pkglogger.NewAuditLogger(logger),
		),
	}
}

// usersWith returns a repository holding the given users keyed by email
func usersWith(users ...*models.User) *MockUserRepository {
	return &MockUserRepository{
		GetByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			for _, u := range users {
				if u.Email == email {
					return u, nil
				}
			}
			return nil, models.ErrNotFound
		},
		GetByIDFunc: func(_ context.Context, id string) (*models.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, models.ErrNotFound
		},
	}
}

// MockPaymentRepository implements PaymentRepository for testing
type MockPaymentRepository struct {
	CreateFunc  func(ctx context.Context, p *models.Payment) (*models.Payment, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Payment, error)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = "payment-1"
	return p, nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

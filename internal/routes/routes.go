package routes

import (
	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/handlers"
	"github.com/BradenHooton/frontdesk/internal/middleware"
	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups every HTTP handler the router serves
type Handlers struct {
	Auth          *handlers.AuthHandler
	Staff         *handlers.StaffHandler
	Patients      *handlers.PatientHandler
	Appointments  *handlers.AppointmentHandler
	Prescriptions *handlers.PrescriptionHandler
	Payments      *handlers.PaymentHandler
	Health        *handlers.HealthHandler
}

// Limits configures the request limiters applied to route groups
type Limits struct {
	Auth  middleware.RateLimitConfig
	Staff middleware.RateLimitConfig
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, tokenManager *auth.TokenManager, limits Limits) {
	router.Get("/health", h.Health.Check)

	// Public routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(limits.Auth))
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/register", h.Auth.Register)
	})

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))
		r.Use(middleware.RateLimitByUser(limits.Staff))

		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/staff/me", h.Staff.Me)
		r.Get("/staff", h.Staff.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleReceptionist, models.RoleDoctor))

			r.Route("/patients", func(r chi.Router) {
				r.Post("/", h.Patients.Create)
				r.Get("/search", h.Patients.Search)
				r.Get("/{id}", h.Patients.Get)
				r.Put("/{id}", h.Patients.Update)
				r.Post("/{id}/checkin", h.Patients.CheckIn)
				r.Get("/{id}/checkins", h.Patients.CheckIns)
				r.Get("/{id}/qrcode", h.Patients.QRCode)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", h.Appointments.Book)
				r.Put("/{id}/reschedule", h.Appointments.Reschedule)
				r.Delete("/{id}", h.Appointments.Cancel)
				r.Get("/patient/{patientId}", h.Appointments.ForPatient)
				r.Get("/doctor/{doctorId}", h.Appointments.ForDoctor)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleReceptionist))
			r.Post("/", h.Payments.Create)
			r.Get("/{id}", h.Payments.Get)
		})

		r.Route("/prescriptions", func(r chi.Router) {
			r.With(auth.RequireRole(models.RoleDoctor)).Post("/", h.Prescriptions.Create)
			r.With(auth.RequireRole(models.RoleDoctor)).Post("/{id}/send", h.Prescriptions.Send)
			r.With(auth.RequireRole(models.RoleDoctor, models.RolePharmacist)).
				Get("/patient/{patientId}", h.Prescriptions.ForPatient)
		})
	})
}

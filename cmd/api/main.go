package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	"github.com/BradenHooton/frontdesk/internal/background"
	"github.com/BradenHooton/frontdesk/internal/cache"
	"github.com/BradenHooton/frontdesk/internal/config"
	"github.com/BradenHooton/frontdesk/internal/database"
	"github.com/BradenHooton/frontdesk/internal/handlers"
	middlewareCustom "github.com/BradenHooton/frontdesk/internal/middleware"
	"github.com/BradenHooton/frontdesk/internal/migration"
	"github.com/BradenHooton/frontdesk/internal/repositories"
	"github.com/BradenHooton/frontdesk/internal/routes"
	"github.com/BradenHooton/frontdesk/internal/services"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	pkglogger "github.com/BradenHooton/frontdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(&cfg.Database, logger); err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Attempt tracker and session cache
	var (
		store   cache.Store
		sweeper *background.CleanupManager
	)
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		redisStore := cache.NewRedisStore(client)
		defer redisStore.Close()
		store = redisStore
		logger.Info("using redis cache", slog.String("addr", cfg.Redis.Addr))
	} else {
		memStore := cache.NewMemoryStore(time.Now)
		store = memStore
		sweeper = background.NewCleanupManager(memStore, logger, cfg.Redis.SweepInterval)
		logger.Warn("REDIS_ADDR not set, using in-process cache; lockout state is not shared between instances")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	prescriptionRepo := repositories.NewPrescriptionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Notifications
	var notifier services.Notifier = services.NewLogNotifier(logger)
	if cfg.Email.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ses, err := services.NewSESNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		cancel()
		if err != nil {
			logger.Error("failed to initialize email notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = ses
	}

	// Services
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	policy := services.LockoutPolicy{
		MaxFailedAttempts:       cfg.Lockout.MaxFailedAttempts,
		FailedWindow:            cfg.Lockout.FailedWindow,
		FailedBlockDuration:     cfg.Lockout.FailedBlockDuration,
		MaxSuccessfulLogins:     cfg.Lockout.MaxSuccessfulLogins,
		SuccessWindow:           cfg.Lockout.SuccessWindow,
		SuspiciousBlockDuration: cfg.Lockout.SuspiciousBlockDuration,
	}
	tracker := services.NewAttemptTracker(store, policy, time.Now)
	sessions := services.NewSessionService(store, tokenManager, logger)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay:   time.Duration(cfg.Auth.TimingDelayBaseMs) * time.Millisecond,
		RandomDelay: time.Duration(cfg.Auth.TimingDelayRandomMs) * time.Millisecond,
	})
	auditLogger := pkglogger.NewAuditLogger(logger)

	authService := services.NewAuthService(userRepo, tracker, sessions, notifier, timingDelay, logger, auditLogger)
	staffService := services.NewStaffService(userRepo, logger)
	patientService := services.NewPatientService(patientRepo, logger, time.Now)
	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo, userRepo, notifier, logger)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, patientRepo, logger, time.Now)
	paymentService := services.NewPaymentService(paymentRepo, patientRepo, appointmentRepo, logger)

	// Handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, policy, ipConfig),
		Staff:         handlers.NewStaffHandler(staffService),
		Patients:      handlers.NewPatientHandler(patientService),
		Appointments:  handlers.NewAppointmentHandler(appointmentService),
		Prescriptions: handlers.NewPrescriptionHandler(prescriptionService),
		Payments:      handlers.NewPaymentHandler(paymentService),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": db.HealthCheck,
			"cache":    store.Ping,
		}, logger),
	}

	authLimit := middlewareCustom.DefaultAuthRateLimit()
	authLimit.Requests = cfg.Auth.LoginRequestsPerMin
	authLimit.IPConfig = ipConfig
	staffLimit := middlewareCustom.DefaultStaffRateLimit()
	staffLimit.IPConfig = ipConfig

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, h, tokenManager, routes.Limits{Auth: authLimit, Staff: staffLimit})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	if sweeper != nil {
		go sweeper.Start(bgCtx)
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	bgCancel()
	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return
	}
	authService.WaitNotifications()

	logger.Info("server stopped gracefully")
}

func runMigrations(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	m, err := migration.NewMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

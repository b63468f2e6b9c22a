package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security-relevant login gate or account event
type AuditEvent struct {
	EventType     string
	UserID        string
	Email         string // masked before it is written
	IPAddress     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes audit records next to the application log
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger, now: time.Now}
}

// LogAuthAttempt records a login outcome
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.log(ctx, level, "auth", event)
}

// LogBlock records a block record being written for an email
func (al *AuditLogger) LogBlock(ctx context.Context, email, reason string, until time.Time) {
	al.log(ctx, slog.LevelWarn, "lockout", AuditEvent{
		EventType:     "account_blocked",
		Email:         email,
		FailureReason: reason,
		Metadata:      map[string]string{"blocked_until": until.UTC().Format(time.RFC3339)},
	})
}

// LogAccountAction records registration, logout and similar actions
func (al *AuditLogger) LogAccountAction(ctx context.Context, eventType, userID string, metadata map[string]string) {
	al.log(ctx, slog.LevelInfo, "account", AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Success:   true,
		Metadata:  metadata,
	})
}

func (al *AuditLogger) log(ctx context.Context, level slog.Level, auditType string, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

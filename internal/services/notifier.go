package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	pkglogger "github.com/BradenHooton/frontdesk/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers emails triggered by the login gate and by bookings.
// Callers log failures; a failed notification never changes an outcome.
type Notifier interface {
	NotifyAccountBlocked(ctx context.Context, user *models.User, rec *models.BlockRecord) error
	SendAppointmentConfirmation(ctx context.Context, patient *models.Patient, doctor *models.User, appt *models.Appointment) error
}

// SESClient is the part of the SES API the notifier uses
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends plain-text emails through AWS SES
type SESNotifier struct {
	client      SESClient
	fromAddress string
	logger      *slog.Logger
}

// NewSESNotifier loads the default AWS credential chain for region
func NewSESNotifier(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, logger), nil
}

func NewSESNotifierWithClient(client SESClient, fromAddress string, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{client: client, fromAddress: fromAddress, logger: logger}
}

func (n *SESNotifier) NotifyAccountBlocked(ctx context.Context, user *models.User, rec *models.BlockRecord) error {
	body := fmt.Sprintf(`Hello %s,

Sign-in to your front desk account has been blocked until %s.
Reason: %s.

If this was not you, contact your administrator.
`, user.Name, rec.BlockedUntil.UTC().Format(time.RFC1123), rec.Reason)

	return n.send(ctx, user.Email, "Your account has been temporarily blocked", body)
}

func (n *SESNotifier) SendAppointmentConfirmation(ctx context.Context, patient *models.Patient, doctor *models.User, appt *models.Appointment) error {
	if patient.Email == nil || *patient.Email == "" {
		return nil
	}

	body := fmt.Sprintf(`Dear %s,

Your appointment with Dr. %s is booked for %s, %s.
Reference: %s

Please arrive ten minutes early.
`, patient.Name, doctor.Name, appt.Date.Format("Monday 2 January 2006"), appt.TimeSlot, patient.Code)

	return n.send(ctx, *patient.Email, "Appointment confirmation", body)
}

func (n *SESNotifier) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("email sent",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		slog.String("subject", subject),
		slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}

// LogNotifier only logs; used when email delivery is disabled
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyAccountBlocked(ctx context.Context, user *models.User, rec *models.BlockRecord) error {
	n.logger.InfoContext(ctx, "block notification skipped: email disabled",
		slog.String("user_id", user.ID),
		slog.String("reason", rec.Reason))
	return nil
}

func (n *LogNotifier) SendAppointmentConfirmation(ctx context.Context, patient *models.Patient, _ *models.User, appt *models.Appointment) error {
	n.logger.InfoContext(ctx, "appointment confirmation skipped: email disabled",
		slog.String("patient_id", patient.ID),
		slog.String("appointment_id", appt.ID))
	return nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/frontdesk/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSESClient struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSESClient) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESNotifier_NotifyAccountBlocked(t *testing.T) {
	client := &mockSESClient{}
	n := NewSESNotifierWithClient(client, "desk@clinic.test", discardLogger())
	user := NewTestUser("user-1", testEmail, testPassword)

	err := n.NotifyAccountBlocked(context.Background(), user, &models.BlockRecord{
		Reason:       models.BlockReasonFailedAttempts,
		BlockedUntil: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "desk@clinic.test", aws.ToString(in.Source))
	assert.Equal(t, []string{testEmail}, in.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(in.Message.Body.Text.Data), models.BlockReasonFailedAttempts)
}

func TestSESNotifier_ConfirmationSkipsPatientsWithoutEmail(t *testing.T) {
	client := &mockSESClient{}
	n := NewSESNotifierWithClient(client, "desk@clinic.test", discardLogger())

	err := n.SendAppointmentConfirmation(context.Background(), newTestPatient(), testDoctor(), &models.Appointment{ID: "appt-1"})
	require.NoError(t, err)
	assert.Empty(t, client.inputs)
}

func TestSESNotifier_SendError(t *testing.T) {
	client := &mockSESClient{err: errors.New("throttled")}
	n := NewSESNotifierWithClient(client, "desk@clinic.test", discardLogger())
	patient := newTestPatient()
	patient.Email = strPtr("grace@example.test")

	err := n.SendAppointmentConfirmation(context.Background(), patient, testDoctor(), &models.Appointment{
		ID: "appt-1", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), TimeSlot: "10:30",
	})
	assert.Error(t, err)
}

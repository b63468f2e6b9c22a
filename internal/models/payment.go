package models

import "time"

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "UPI"

	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
	PaymentPending    = "pending"
)

// Payment is a fee collected at the front desk. Amounts are in minor units
// (paise) so they never pass through floating point in storage.
type Payment struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	AppointmentID string    `json:"appointmentId"`
	AmountMinor   int64     `json:"amountMinor"`
	Currency      string    `json:"currency"`
	Method        string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CheckInID     *string   `json:"checkInId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

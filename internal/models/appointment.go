package models

import "time"

const (
	AppointmentScheduled   = "Scheduled"
	AppointmentCompleted   = "Completed"
	AppointmentCancelled   = "Cancelled"
	AppointmentRescheduled = "Rescheduled"
)

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Date      time.Time `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Status    string    `json:"status"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Closed reports whether the appointment can no longer be moved
func (a *Appointment) Closed() bool {
	return a.Status == AppointmentCancelled || a.Status == AppointmentCompleted
}

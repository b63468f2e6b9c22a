package models

import "time"

// Patient genders accepted at registration
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// MedicalHistoryEntry is stored as part of the patient's JSONB history column
type MedicalHistoryEntry struct {
	Condition   string     `json:"condition"`
	Medications []string   `json:"medications,omitempty"`
	Allergies   []string   `json:"allergies,omitempty"`
	LastVisit   *time.Time `json:"lastVisit,omitempty"`
}

type Patient struct {
	ID             string                `json:"id"`
	Code           string                `json:"patientId"` // human readable, e.g. PAT-1712345678901
	Name           string                `json:"name"`
	Age            *int                  `json:"age,omitempty"`
	Gender         *string               `json:"gender,omitempty"`
	Weight         *string               `json:"weight,omitempty"`
	Phone          string                `json:"phone"`
	Email          *string               `json:"email,omitempty"`
	Address        *string               `json:"address,omitempty"`
	MedicalHistory []MedicalHistoryEntry `json:"medicalHistory"`
	LastVisit      *time.Time            `json:"lastVisit,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// PatientUpdate carries the mutable fields of a patient; nil means unchanged
type PatientUpdate struct {
	Name           *string
	Age            *int
	Gender         *string
	Weight         *string
	Phone          *string
	Email          *string
	Address        *string
	MedicalHistory []MedicalHistoryEntry
}

type CheckIn struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	Reason      string    `json:"reason,omitempty"`
	CheckedInAt time.Time `json:"checkedInAt"`
	PaymentID   *string   `json:"paymentId,omitempty"`
}

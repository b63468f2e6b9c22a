package models

import "time"

type Medication struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	Instructions string `json:"instructions,omitempty"`
}

type Prescription struct {
	ID             string       `json:"id"`
	Code           string       `json:"prescriptionId"`
	PatientID      string       `json:"patientId"`
	DoctorID       string       `json:"doctorId"`
	Medications    []Medication `json:"medications"`
	SentToPharmacy bool         `json:"sentToPharmacy"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

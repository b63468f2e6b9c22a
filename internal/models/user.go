package models

import (
	"time"
)

// Staff roles
const (
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RolePharmacist   = "pharmacist"
)

type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	Specialization *string // doctors only
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the profile returned to a caller after login
type PublicUser struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Specialization *string `json:"specialization"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Specialization: u.Specialization,
	}
}

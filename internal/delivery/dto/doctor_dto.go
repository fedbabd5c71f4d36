package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name      string         `json:"name" validate:"required,min=2,max=100"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone" validate:"required,max=20"`
	CRM       string         `json:"crm" validate:"required,crm"`
	Specialty string         `json:"specialty" validate:"required,specialty"`
	Address   AddressRequest `json:"address" validate:"required"`
}

// UpdateDoctorRequest leaves email, crm and specialty immutable.
type UpdateDoctorRequest struct {
	Name    string                `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   string                `json:"phone" validate:"omitempty,max=20"`
	Address *UpdateAddressRequest `json:"address" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CRM       string          `json:"crm"`
	Specialty string          `json:"specialty"`
	Address   AddressResponse `json:"address"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DoctorSummaryResponse is the short listing form.
type DoctorSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CRM       string    `json:"crm"`
	Specialty string    `json:"specialty"`
}

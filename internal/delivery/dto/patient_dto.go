package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Name    string         `json:"name" validate:"required,min=2,max=100"`
	Email   string         `json:"email" validate:"required,email"`
	Phone   string         `json:"phone" validate:"required,max=20"`
	CPF     string         `json:"cpf" validate:"required,cpf"`
	Address AddressRequest `json:"address" validate:"required"`
}

type UpdatePatientRequest struct {
	Name    string                `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   string                `json:"phone" validate:"omitempty,max=20"`
	Address *UpdateAddressRequest `json:"address" validate:"omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CPF       string          `json:"cpf"`
	Address   AddressResponse `json:"address"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type PatientSummaryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	CPF   string    `json:"cpf"`
}

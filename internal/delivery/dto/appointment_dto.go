package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// ScheduleAppointmentRequest picks a random free doctor of Specialty when DoctorID is nil.
type ScheduleAppointmentRequest struct {
	PatientID uuid.UUID  `json:"patient_id" validate:"required"`
	DoctorID  *uuid.UUID `json:"doctor_id" validate:"omitempty"`
	Specialty string     `json:"specialty" validate:"omitempty,specialty"`
	DateTime  time.Time  `json:"date_time" validate:"required"`
}

// Reason is checked by the usecase so that an unknown value reports the domain error.
type CancelAppointmentRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Reason        string    `json:"reason" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID              `json:"id"`
	DoctorID           uuid.UUID              `json:"doctor_id"`
	PatientID          uuid.UUID              `json:"patient_id"`
	DateTime           time.Time              `json:"date_time"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
	Doctor             *DoctorSummaryResponse `json:"doctor,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

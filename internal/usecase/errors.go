package usecase

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError means the referenced record does not exist or is no longer active.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError is a business rule violation the caller can correct.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError is a uniqueness constraint that lost a race or clashes with an active record.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

var (
	ErrTooSoon                     = &ValidationError{Reason: "too soon"}
	ErrOutsideBusinessHours        = &ValidationError{Reason: "outside business hours"}
	ErrSpecialtyRequired           = &ValidationError{Reason: "specialty is required when no doctor is chosen"}
	ErrInvalidSpecialty            = &ValidationError{Reason: "invalid specialty"}
	ErrDateTimeRequired            = &ValidationError{Reason: "date time is required"}
	ErrNoDoctorAvailable           = &ValidationError{Reason: "no doctor available"}
	ErrDoctorUnavailable           = &ValidationError{Reason: "doctor unavailable"}
	ErrPatientAlreadyBookedThatDay = &ValidationError{Reason: "patient already has an appointment on this day"}
	ErrInvalidCancellationReason   = &ValidationError{Reason: "invalid cancellation reason"}
	ErrAppointmentAlreadyCancelled = &ValidationError{Reason: "appointment already cancelled"}
	ErrCannotCancelPast            = &ValidationError{Reason: "cannot cancel past appointment"}

	ErrSlotConflict = &ConflictError{Reason: "slot was taken concurrently, try another time"}
	ErrCRMInUse     = &ConflictError{Reason: "crm already registered for an active doctor"}
	ErrCPFInUse     = &ConflictError{Reason: "cpf already registered for an active patient"}
)

func doctorNotFound(id uuid.UUID) error {
	return &NotFoundError{Entity: "doctor", ID: id}
}

func patientNotFound(id uuid.UUID) error {
	return &NotFoundError{Entity: "patient", ID: id}
}

func appointmentNotFound(id uuid.UUID) error {
	return &NotFoundError{Entity: "appointment", ID: id}
}

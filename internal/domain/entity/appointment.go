package entity

import (
	"time"

	"github.com/google/uuid"
)

// CancellationReason explains why an appointment was cancelled
type CancellationReason string

const (
	CancellationPatientNoShow   CancellationReason = "PATIENT_NO_SHOW"
	CancellationDoctorCancelled CancellationReason = "DOCTOR_CANCELLED"
	CancellationPatientCancel   CancellationReason = "PATIENT_CANCELLED"
	CancellationOther           CancellationReason = "OTHER"
)

// CancellationReasons lists every accepted cancellation reason.
var CancellationReasons = []CancellationReason{
	CancellationPatientNoShow,
	CancellationDoctorCancelled,
	CancellationPatientCancel,
	CancellationOther,
}

// IsValid checks if the reason is one of the known values
func (r CancellationReason) IsValid() bool {
	for _, known := range CancellationReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Appointment is a booked consultation. A nil CancellationReason means the
// appointment is active and still occupies its doctor's slot.
type Appointment struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	DateTime           time.Time           `gorm:"column:date_time;type:timestamptz;not null" json:"date_time"`
	CancellationReason *CancellationReason `gorm:"type:varchar(30)" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time          `gorm:"type:timestamptz" json:"cancelled_at,omitempty"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment has a cancellation reason
func (a *Appointment) IsCancelled() bool {
	return a.CancellationReason != nil
}

// Cancel sets the cancellation reason and timestamp
func (a *Appointment) Cancel(reason CancellationReason, at time.Time) {
	a.CancellationReason = &reason
	a.CancelledAt = &at
}

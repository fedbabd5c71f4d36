package repository

import (
	"context"
	"time"

	"medical-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository treats an appointment as active while its cancellation reason is null.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindActiveByDoctorAndDateTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error)
	// FindBusyDoctorIDs returns the doctors holding an active appointment at exactly dateTime.
	FindBusyDoctorIDs(ctx context.Context, dateTime time.Time) ([]uuid.UUID, error)
	// ExistsActiveForPatientBetween reports an active appointment in [from, to).
	ExistsActiveForPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	// Cancel only touches an active appointment. Returns affected rows: 0 means already cancelled.
	Cancel(ctx context.Context, id uuid.UUID, reason entity.CancellationReason, at time.Time) (int64, error)
}

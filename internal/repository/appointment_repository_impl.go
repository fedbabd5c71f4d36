package repository

import (
	"context"
	"errors"
	"time"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create leaves the Doctor and Patient associations alone; only the appointment row is written.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(appointment).Error
	if isDuplicateKeyError(err, constraintAppointmentSlot) {
		return domainRepo.ErrSlotTaken
	}
	return err
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).Preload("Doctor").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDateTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND date_time = ? AND cancellation_reason IS NULL", doctorID, dateTime).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBusyDoctorIDs(ctx context.Context, dateTime time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("date_time = ? AND cancellation_reason IS NULL", dateTime).
		Distinct().
		Pluck("doctor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *appointmentRepository) ExistsActiveForPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("patient_id = ? AND date_time >= ? AND date_time < ? AND cancellation_reason IS NULL", patientID, from, to).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := conn(ctx, r.db).Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Cancel sets the reason ONLY if the appointment is still active.
// Returns affected rows: 1 = success, 0 = already cancelled (prevents double-cancel race).
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID, reason entity.CancellationReason, at time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND cancellation_reason IS NULL", id).
		Updates(map[string]interface{}{
			"cancellation_reason": reason,
			"cancelled_at":        at,
		})
	return result.RowsAffected, result.Error
}

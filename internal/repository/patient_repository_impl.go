package repository

import (
	"context"
	"errors"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	err := conn(ctx, r.db).Create(patient).Error
	if isDuplicateKeyError(err, constraintPatientCPF) {
		return domainRepo.ErrDuplicateCPF
	}
	return err
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := conn(ctx, r.db).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := conn(ctx, r.db).Where("id = ? AND active = ?", id, true).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAllActive(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	db := conn(ctx, r.db)
	if err := db.Model(&entity.Patient{}).Where("active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Where("active = ?", true).Limit(limit).Offset(offset).Order("name ASC").Find(&patients).Error; err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return conn(ctx, r.db).Save(patient).Error
}

func (r *patientRepository) MarkInactive(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Patient{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}

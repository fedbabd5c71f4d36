package repository

import (
	"context"
	"errors"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	err := conn(ctx, r.db).Create(doctor).Error
	if isDuplicateKeyError(err, constraintDoctorCRM) {
		return domainRepo.ErrDuplicateCRM
	}
	return err
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return r.first(conn(ctx, r.db).Where("id = ?", id))
}

func (r *doctorRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return r.first(conn(ctx, r.db).Where("id = ? AND active = ?", id, true))
}

func (r *doctorRepository) FindActiveBySpecialty(ctx context.Context, specialty entity.Specialty) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := conn(ctx, r.db).
		Where("specialty = ? AND active = ?", specialty, true).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindAllActive(ctx context.Context, limit, offset int) ([]entity.Doctor, int64, error) {
	var doctors []entity.Doctor
	var total int64

	db := conn(ctx, r.db)
	if err := db.Model(&entity.Doctor{}).Where("active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Where("active = ?", true).Limit(limit).Offset(offset).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, 0, err
	}

	return doctors, total, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return conn(ctx, r.db).Save(doctor).Error
}

// MarkInactive flips active only on a still-active doctor.
// Returns affected rows: 0 = missing or already excluded.
func (r *doctorRepository) MarkInactive(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Doctor{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) first(query *gorm.DB) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := query.First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

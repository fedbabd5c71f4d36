package repository

import (
	"context"

	"medical-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindAllActive(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error)
	Update(ctx context.Context, patient *entity.Patient) error
	MarkInactive(ctx context.Context, id uuid.UUID) (int64, error)
}

package repository

import (
	"context"

	"medical-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorRepository finds return (nil, nil) when no row matches.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindActiveBySpecialty(ctx context.Context, specialty entity.Specialty) ([]entity.Doctor, error)
	FindAllActive(ctx context.Context, limit, offset int) ([]entity.Doctor, int64, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	MarkInactive(ctx context.Context, id uuid.UUID) (int64, error)
}

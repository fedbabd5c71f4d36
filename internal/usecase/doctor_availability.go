package usecase

import (
	"context"
	"time"

	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DoctorAvailability picks a free doctor for a specialty and instant.
type DoctorAvailability interface {
	// PickAvailableDoctor returns (nil, nil) when every matching doctor is busy
	// or none is registered.
	PickAvailableDoctor(ctx context.Context, specialty entity.Specialty, dateTime time.Time) (*entity.Doctor, error)
}

type doctorAvailability struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	random          RandomSource
}

func NewDoctorAvailability(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	random RandomSource,
) DoctorAvailability {
	return &doctorAvailability{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		random:          random,
	}
}

// PickAvailableDoctor selects uniformly among active doctors of the specialty
// that hold no active appointment at exactly dateTime.
//
// Flow:
// 1. Load active doctors of the specialty
// 2. Load the doctors busy at dateTime
// 3. Drop the busy ones
// 4. Pick one of the rest at random
func (u *doctorAvailability) PickAvailableDoctor(ctx context.Context, specialty entity.Specialty, dateTime time.Time) (*entity.Doctor, error) {
	if !specialty.IsValid() {
		return nil, ErrInvalidSpecialty
	}
	if dateTime.IsZero() {
		return nil, ErrDateTimeRequired
	}

	candidates, err := u.doctorRepo.FindActiveBySpecialty(ctx, specialty)
	if err != nil {
		u.log.Warnf("Failed to find doctors for specialty %s: %+v", specialty, err)
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	busyIDs, err := u.appointmentRepo.FindBusyDoctorIDs(ctx, dateTime)
	if err != nil {
		u.log.Warnf("Failed to find busy doctors at %s: %+v", dateTime, err)
		return nil, err
	}

	free := excludeBusy(candidates, busyIDs)
	if len(free) == 0 {
		return nil, nil
	}

	chosen := free[u.random.IntN(len(free))]
	return &chosen, nil
}

func excludeBusy(doctors []entity.Doctor, busyIDs []uuid.UUID) []entity.Doctor {
	busy := make(map[uuid.UUID]struct{}, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = struct{}{}
	}

	free := make([]entity.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		if _, ok := busy[doctor.ID]; !ok {
			free = append(free, doctor)
		}
	}
	return free
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DoctorUsecase interface {
	Register(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.DoctorSummaryResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Exclude(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		transactor:   transactor,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) Register(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor := converter.DoctorFromRequest(req)

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.doctorRepo.Create(ctx, doctor); err != nil {
			if errors.Is(err, repository.ErrDuplicateCRM) {
				return ErrCRMInUse
			}
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Doctor registered: id=%s, crm=%s", doctor.ID, doctor.CRM)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) List(ctx context.Context, page, limit int) ([]dto.DoctorSummaryResponse, int64, error) {
	doctors, total, err := u.doctorRepo.FindAllActive(ctx, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorsToSummaryResponses(doctors), total, nil
}

func (u *doctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, doctorNotFound(id)
	}

	return converter.DoctorToResponse(doctor), nil
}

// Update changes name, phone and address of an active doctor
func (u *doctorUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	var doctor *entity.Doctor

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doctor, err = u.doctorRepo.FindActiveByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", id, err)
			return err
		}
		if doctor == nil {
			return doctorNotFound(id)
		}

		oldValue := converter.DoctorToResponse(doctor)

		if name := strings.TrimSpace(req.Name); name != "" {
			doctor.Name = name
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			doctor.Phone = phone
		}
		doctor.Address.Merge(converter.AddressFromUpdateRequest(req.Address))

		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor %s: %+v", id, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, entity.AuditActionDoctorUpdate, "doctor", id.String(), oldValue, converter.DoctorToResponse(doctor))
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// Exclude soft deletes the doctor. Appointments keep referencing it.
func (u *doctorUsecase) Exclude(ctx context.Context, id uuid.UUID) error {
	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := u.doctorRepo.FindActiveByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", id, err)
			return err
		}
		if doctor == nil {
			return doctorNotFound(id)
		}

		affected, err := u.doctorRepo.MarkInactive(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to exclude doctor %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return doctorNotFound(id)
		}

		return u.auditService.LogDelete(ctx, entity.AuditActionDoctorExclude, "doctor", id.String(), converter.DoctorToResponse(doctor))
	})
}

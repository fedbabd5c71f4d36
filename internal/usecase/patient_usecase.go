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

type PatientUsecase interface {
	Register(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.PatientSummaryResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Exclude(ctx context.Context, id uuid.UUID) error
}

type patientUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:          log,
		transactor:   transactor,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) Register(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	patient := converter.PatientFromRequest(req)

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrDuplicateCPF) {
				return ErrCPFInUse
			}
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, entity.AuditActionPatientCreate, "patient", patient.ID.String(), converter.PatientToResponse(patient))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Patient registered: id=%s", patient.ID)
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) List(ctx context.Context, page, limit int) ([]dto.PatientSummaryResponse, int64, error) {
	patients, total, err := u.patientRepo.FindAllActive(ctx, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, 0, err
	}

	return converter.PatientsToSummaryResponses(patients), total, nil
}

func (u *patientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, patientNotFound(id)
	}

	return converter.PatientToResponse(patient), nil
}

// Update changes name, phone and address of an active patient
func (u *patientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	var patient *entity.Patient

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		patient, err = u.patientRepo.FindActiveByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", id, err)
			return err
		}
		if patient == nil {
			return patientNotFound(id)
		}

		oldValue := converter.PatientToResponse(patient)

		if name := strings.TrimSpace(req.Name); name != "" {
			patient.Name = name
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			patient.Phone = phone
		}
		patient.Address.Merge(converter.AddressFromUpdateRequest(req.Address))

		if err := u.patientRepo.Update(ctx, patient); err != nil {
			u.log.Warnf("Failed to update patient %s: %+v", id, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, entity.AuditActionPatientUpdate, "patient", id.String(), oldValue, converter.PatientToResponse(patient))
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// Exclude soft deletes the patient. Appointments keep referencing it.
func (u *patientUsecase) Exclude(ctx context.Context, id uuid.UUID) error {
	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		patient, err := u.patientRepo.FindActiveByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", id, err)
			return err
		}
		if patient == nil {
			return patientNotFound(id)
		}

		affected, err := u.patientRepo.MarkInactive(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to exclude patient %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return patientNotFound(id)
		}

		return u.auditService.LogDelete(ctx, entity.AuditActionPatientExclude, "patient", id.String(), converter.PatientToResponse(patient))
	})
}

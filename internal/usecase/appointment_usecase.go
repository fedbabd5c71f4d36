package usecase

import (
	"context"
	"errors"
	"time"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/monitoring"
	"medical-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxScheduleAttempts is the first try plus one retry after a lost slot race.
const maxScheduleAttempts = 2

// errSlotRace marks an attempt that lost the slot to a concurrent booking.
var errSlotRace = errors.New("slot race")

type AppointmentUsecase interface {
	Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	availability    DoctorAvailability
	slotLocker      service.SlotLocker
	auditService    service.AuditService
	publisher       service.EventPublisher
	clock           Clock
	policy          SchedulingPolicy
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	availability DoctorAvailability,
	slotLocker service.SlotLocker,
	auditService service.AuditService,
	publisher service.EventPublisher,
	clock Clock,
	policy SchedulingPolicy,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		transactor:      transactor,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		slotLocker:      slotLocker,
		auditService:    auditService,
		publisher:       publisher,
		clock:           clock,
		policy:          policy,
	}
}

// Schedule books an appointment.
//
// Flow (each attempt runs in one transaction):
// 1. Patient must be active
// 2. Chosen doctor, if any, must be active
// 3. Date-time must respect the lead time
// 4. Date-time must fall inside business hours
// 5. Without a doctor, pick a free one of the specialty
// 6. Doctor must be free at date-time
// 7. Patient must have no other appointment that day
// 8. Take the Redis slot lock and insert
//
// Date-times are truncated to the minute, so one slot has one key in Redis and in the index.
// A lost race in step 8 re-runs the whole attempt once, then fails with ErrSlotConflict.
func (u *appointmentUsecase) Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	var (
		appointment *entity.Appointment
		doctor      *entity.Doctor
		err         error
	)

	for attempt := 1; attempt <= maxScheduleAttempts; attempt++ {
		appointment, doctor, err = u.scheduleOnce(ctx, req)
		if !errors.Is(err, errSlotRace) {
			break
		}
		monitoring.SchedulingConflicts.Inc()
		u.log.Infof("Slot race on attempt %d for patient %s at %s", attempt, req.PatientID, req.DateTime)
	}
	if errors.Is(err, errSlotRace) {
		return nil, ErrSlotConflict
	}
	if err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventAppointmentScheduled, appointment)
	monitoring.AppointmentsScheduled.WithLabelValues(string(doctor.Specialty)).Inc()

	u.log.Infof("Appointment scheduled: id=%s, doctor=%s, patient=%s, at=%s", appointment.ID, appointment.DoctorID, appointment.PatientID, appointment.DateTime)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) scheduleOnce(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*entity.Appointment, *entity.Doctor, error) {
	var (
		appointment *entity.Appointment
		doctor      *entity.Doctor
		release     func()
	)
	// The lock outlives the transaction so no one slips in before commit.
	defer func() {
		if release != nil {
			release()
		}
	}()

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		patient, err := u.patientRepo.FindActiveByID(ctx, req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
			return err
		}
		if patient == nil {
			return patientNotFound(req.PatientID)
		}

		if req.DoctorID != nil {
			doctor, err = u.doctorRepo.FindActiveByID(ctx, *req.DoctorID)
			if err != nil {
				u.log.Warnf("Failed to find doctor %s: %+v", *req.DoctorID, err)
				return err
			}
			if doctor == nil {
				return doctorNotFound(*req.DoctorID)
			}
		}

		at := req.DateTime.Truncate(time.Minute)
		if err := u.policy.checkLeadTime(u.clock.Now(), at); err != nil {
			return err
		}
		if err := u.policy.checkBusinessHours(at); err != nil {
			return err
		}

		if doctor == nil {
			if req.Specialty == "" {
				return ErrSpecialtyRequired
			}
			doctor, err = u.availability.PickAvailableDoctor(ctx, entity.Specialty(req.Specialty), at)
			if err != nil {
				return err
			}
			if doctor == nil {
				return ErrNoDoctorAvailable
			}
		}

		busy, err := u.appointmentRepo.FindActiveByDoctorAndDateTime(ctx, doctor.ID, at)
		if err != nil {
			u.log.Warnf("Failed to check doctor %s at %s: %+v", doctor.ID, at, err)
			return err
		}
		if busy != nil {
			return ErrDoctorUnavailable
		}

		dayStart, dayEnd := u.policy.dayBounds(at)
		booked, err := u.appointmentRepo.ExistsActiveForPatientBetween(ctx, patient.ID, dayStart, dayEnd)
		if err != nil {
			u.log.Warnf("Failed to check appointments of patient %s: %+v", patient.ID, err)
			return err
		}
		if booked {
			return ErrPatientAlreadyBookedThatDay
		}

		release, err = u.slotLocker.Acquire(ctx, doctor.ID, at)
		if err != nil {
			if errors.Is(err, service.ErrSlotLocked) {
				return errSlotRace
			}
			u.log.Warnf("Failed to lock slot of doctor %s at %s: %+v", doctor.ID, at, err)
			return err
		}

		appointment = &entity.Appointment{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			DateTime:  at,
		}
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return errSlotRace
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, entity.AuditActionAppointmentSchedule, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		return nil, nil, err
	}

	return appointment, doctor, nil
}

// Cancel marks an upcoming appointment as cancelled. The row is kept.
//
// Flow:
// 1. Appointment must exist
// 2. Reason must be a known value
// 3. Appointment must not be cancelled already
// 4. Appointment must still be in the future
// 5. Conditional update, so two concurrent cancels cannot both succeed
func (u *appointmentUsecase) Cancel(ctx context.Context, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	reason := entity.CancellationReason(req.Reason)
	var appointment *entity.Appointment

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := u.appointmentRepo.FindByID(ctx, req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
			return err
		}
		if found == nil {
			return appointmentNotFound(req.AppointmentID)
		}

		if !reason.IsValid() {
			return ErrInvalidCancellationReason
		}
		if found.IsCancelled() {
			return ErrAppointmentAlreadyCancelled
		}

		now := u.clock.Now()
		if !found.DateTime.After(now) {
			return ErrCannotCancelPast
		}

		affected, err := u.appointmentRepo.Cancel(ctx, found.ID, reason, now)
		if err != nil {
			u.log.Warnf("Failed to cancel appointment %s: %+v", found.ID, err)
			return err
		}
		if affected == 0 {
			return ErrAppointmentAlreadyCancelled
		}

		oldValue := converter.AppointmentToResponse(found)
		found.Cancel(reason, now)
		appointment = found

		return u.auditService.LogUpdate(ctx, entity.AuditActionAppointmentCancel, "appointment", found.ID.String(), oldValue, converter.AppointmentToResponse(found))
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventAppointmentCancelled, appointment)
	monitoring.AppointmentsCancelled.WithLabelValues(string(reason)).Inc()

	u.log.Infof("Appointment cancelled: id=%s, reason=%s", appointment.ID, reason)
	return converter.AppointmentToResponse(appointment), nil
}

// Get returns an appointment, cancelled ones included
func (u *appointmentUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, appointmentNotFound(id)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListByPatient returns every appointment of a patient, newest first
func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, patientNotFound(patientID)
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// publish runs after commit; a broker failure does not undo the booking.
func (u *appointmentUsecase) publish(ctx context.Context, eventType string, appointment *entity.Appointment) {
	event := service.AppointmentEvent{
		Type:          eventType,
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		DateTime:      appointment.DateTime,
		OccurredAt:    u.clock.Now(),
	}
	if appointment.CancellationReason != nil {
		event.CancellationReason = string(*appointment.CancellationReason)
	}

	if err := u.publisher.PublishAppointmentEvent(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s for appointment %s: %+v", eventType, appointment.ID, err)
	}
}

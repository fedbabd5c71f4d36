package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// 2030-03-01 is a Friday, 2030-03-03 a Sunday, 2030-03-04 a Monday.
	friday9am    = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	sunday10am   = time.Date(2030, 3, 3, 10, 0, 0, 0, time.UTC)
	monday10am   = time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	saturday10am = time.Date(2030, 3, 2, 10, 0, 0, 0, time.UTC)
)

type appointmentFixture struct {
	usecase      AppointmentUsecase
	transactor   *fakeTransactor
	doctors      *fakeDoctorRepo
	patients     *fakePatientRepo
	appointments *fakeAppointmentRepo
	audit        *fakeAuditLogRepo
	locker       *fakeSlotLocker
	publisher    *recordingPublisher
	random       *fixedRandom
}

func newAppointmentFixture(t *testing.T, now time.Time) *appointmentFixture {
	t.Helper()
	f := &appointmentFixture{
		transactor:   &fakeTransactor{},
		doctors:      newFakeDoctorRepo(),
		patients:     newFakePatientRepo(),
		appointments: newFakeAppointmentRepo(),
		audit:        &fakeAuditLogRepo{},
		locker:       &fakeSlotLocker{},
		publisher:    &recordingPublisher{},
		random:       &fixedRandom{},
	}

	log := newTestLogger()
	availability := NewDoctorAvailability(log, f.doctors, f.appointments, f.random)
	f.usecase = NewAppointmentUsecase(
		log,
		f.transactor,
		f.patients,
		f.doctors,
		f.appointments,
		availability,
		f.locker,
		service.NewAuditService(log, f.audit),
		f.publisher,
		fixedClock{now: now},
		DefaultSchedulingPolicy(time.UTC),
	)
	return f
}

func (f *appointmentFixture) addDoctor(t *testing.T, name string, specialty entity.Specialty) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{Name: name, CRM: uuid.NewString()[:6], Specialty: specialty, Active: true}
	require.NoError(t, f.doctors.Create(context.Background(), doctor))
	return doctor
}

func (f *appointmentFixture) addPatient(t *testing.T, name string) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{Name: name, CPF: uuid.NewString()[:11], Active: true}
	require.NoError(t, f.patients.Create(context.Background(), patient))
	return patient
}

func bySpecialty(patientID uuid.UUID, specialty entity.Specialty, at time.Time) *dto.ScheduleAppointmentRequest {
	return &dto.ScheduleAppointmentRequest{PatientID: patientID, Specialty: string(specialty), DateTime: at}
}

func withDoctor(patientID, doctorID uuid.UUID, at time.Time) *dto.ScheduleAppointmentRequest {
	return &dto.ScheduleAppointmentRequest{PatientID: patientID, DoctorID: &doctorID, DateTime: at}
}

func TestSchedule_PicksFreeDoctorThenReportsFullyBooked(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. House", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Ana")
	ctx := context.Background()

	resp, err := f.usecase.Schedule(ctx, bySpecialty(patient.ID, entity.SpecialtyCardiology, monday10am))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, doctor.ID, resp.DoctorID)
	assert.Equal(t, patient.ID, resp.PatientID)
	assert.True(t, monday10am.Equal(resp.DateTime))
	assert.Empty(t, resp.CancellationReason)

	_, err = f.usecase.Schedule(ctx, bySpecialty(patient.ID, entity.SpecialtyCardiology, monday10am))
	assert.ErrorIs(t, err, ErrNoDoctorAvailable)
	assert.Equal(t, 1, f.appointments.activeCount())
}

func TestSchedule_LeadTimeBoundary(t *testing.T) {
	now := monday10am.Add(-time.Hour)

	tests := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{"in 10 minutes", 10 * time.Minute, ErrTooSoon},
		{"exactly 30 minutes", 30 * time.Minute, ErrTooSoon},
		{"31 minutes", 31 * time.Minute, nil},
		{"one hour", time.Hour, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t, now)
			doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyOrthopedics)
			patient := f.addPatient(t, "Bruno")

			_, err := f.usecase.Schedule(context.Background(), withDoctor(patient.ID, doctor.ID, now.Add(tt.offset)))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var validationErr *ValidationError
				assert.True(t, errors.As(err, &validationErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchedule_SundayRejectedMondayAccepted(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyDermatology)
	patient := f.addPatient(t, "Carla")
	ctx := context.Background()

	_, err := f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, sunday10am))
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)

	_, err = f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, monday10am))
	assert.NoError(t, err)
}

func TestSchedule_BusinessHours(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"before opening", time.Date(2030, 3, 4, 6, 59, 0, 0, time.UTC), ErrOutsideBusinessHours},
		{"at opening", time.Date(2030, 3, 4, 7, 0, 0, 0, time.UTC), nil},
		{"six pm", time.Date(2030, 3, 4, 18, 0, 0, 0, time.UTC), nil},
		{"after six pm", time.Date(2030, 3, 4, 18, 1, 0, 0, time.UTC), nil},
		{"half past six", time.Date(2030, 3, 4, 18, 30, 0, 0, time.UTC), nil},
		{"last minute", time.Date(2030, 3, 4, 18, 59, 0, 0, time.UTC), nil},
		{"at closing", time.Date(2030, 3, 4, 19, 0, 0, 0, time.UTC), ErrOutsideBusinessHours},
		{"saturday", saturday10am, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t, friday9am)
			doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyGynecology)
			patient := f.addPatient(t, "Davi")

			_, err := f.usecase.Schedule(context.Background(), withDoctor(patient.ID, doctor.ID, tt.at))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchedule_UnknownOrInactiveReferences(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Eva")
	ctx := context.Background()

	var notFound *NotFoundError

	_, err := f.usecase.Schedule(ctx, withDoctor(uuid.New(), doctor.ID, monday10am))
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "patient", notFound.Entity)

	_, err = f.usecase.Schedule(ctx, withDoctor(patient.ID, uuid.New(), monday10am))
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "doctor", notFound.Entity)

	_, err = f.doctors.MarkInactive(ctx, doctor.ID)
	require.NoError(t, err)
	_, err = f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, monday10am))
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, doctor.ID, notFound.ID)

	_, err = f.patients.MarkInactive(ctx, patient.ID)
	require.NoError(t, err)
	_, err = f.usecase.Schedule(ctx, bySpecialty(patient.ID, entity.SpecialtyCardiology, monday10am))
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "patient", notFound.Entity)
}

func TestSchedule_PatientCheckedBeforeTimeRules(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)

	_, err := f.usecase.Schedule(context.Background(), bySpecialty(uuid.New(), entity.SpecialtyCardiology, sunday10am))

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestSchedule_SpecialtyRequiredWithoutDoctor(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	patient := f.addPatient(t, "Fabio")

	_, err := f.usecase.Schedule(context.Background(), &dto.ScheduleAppointmentRequest{PatientID: patient.ID, DateTime: monday10am})
	assert.ErrorIs(t, err, ErrSpecialtyRequired)
}

func TestSchedule_SecondsShareTheSlot(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyCardiology)
	first := f.addPatient(t, "Gabi")
	second := f.addPatient(t, "Hugo")
	ctx := context.Background()

	resp, err := f.usecase.Schedule(ctx, withDoctor(first.ID, doctor.ID, monday10am.Add(500*time.Millisecond)))
	require.NoError(t, err)
	assert.True(t, resp.DateTime.Equal(monday10am))

	_, err = f.usecase.Schedule(ctx, withDoctor(second.ID, doctor.ID, monday10am.Add(30*time.Second)))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestSchedule_ChosenDoctorBusy(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Grey", entity.SpecialtyCardiology)
	first := f.addPatient(t, "Gabi")
	second := f.addPatient(t, "Hugo")
	ctx := context.Background()

	_, err := f.usecase.Schedule(ctx, withDoctor(first.ID, doctor.ID, monday10am))
	require.NoError(t, err)

	_, err = f.usecase.Schedule(ctx, withDoctor(second.ID, doctor.ID, monday10am))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)

	// A cancelled appointment frees the slot
	for id := range f.appointments.appointments {
		_, err := f.usecase.Cancel(ctx, &dto.CancelAppointmentRequest{AppointmentID: id, Reason: string(entity.CancellationDoctorCancelled)})
		require.NoError(t, err)
	}
	_, err = f.usecase.Schedule(ctx, withDoctor(second.ID, doctor.ID, monday10am))
	assert.NoError(t, err)
}

func TestSchedule_AutoPickSkipsBusyDoctor(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	ana := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	bia := f.addDoctor(t, "Dr. Bia", entity.SpecialtyCardiology)
	first := f.addPatient(t, "Iris")
	second := f.addPatient(t, "Joao")
	ctx := context.Background()

	_, err := f.usecase.Schedule(ctx, withDoctor(first.ID, ana.ID, monday10am))
	require.NoError(t, err)

	resp, err := f.usecase.Schedule(ctx, bySpecialty(second.ID, entity.SpecialtyCardiology, monday10am))
	require.NoError(t, err)
	assert.Equal(t, bia.ID, resp.DoctorID)
	assert.Equal(t, 1, f.random.lastN)
}

func TestSchedule_OneAppointmentPerPatientPerDay(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	cardio := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	derma := f.addDoctor(t, "Dr. Bia", entity.SpecialtyDermatology)
	patient := f.addPatient(t, "Karen")
	ctx := context.Background()

	_, err := f.usecase.Schedule(ctx, withDoctor(patient.ID, cardio.ID, monday10am))
	require.NoError(t, err)

	_, err = f.usecase.Schedule(ctx, withDoctor(patient.ID, derma.ID, monday10am.Add(3*time.Hour)))
	assert.ErrorIs(t, err, ErrPatientAlreadyBookedThatDay)

	_, err = f.usecase.Schedule(ctx, withDoctor(patient.ID, derma.ID, monday10am.Add(24*time.Hour)))
	assert.NoError(t, err)
}

func TestSchedule_RetriesOnceAfterSlotRace(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Luis")
	f.appointments.createErrs = []error{repository.ErrSlotTaken}

	resp, err := f.usecase.Schedule(context.Background(), bySpecialty(patient.ID, entity.SpecialtyCardiology, monday10am))
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, resp.DoctorID)
	assert.Equal(t, 2, f.appointments.createCalls)
	assert.Equal(t, 2, f.transactor.calls)
}

func TestSchedule_PersistentRaceIsConflict(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Mara")
	f.appointments.createErrs = []error{repository.ErrSlotTaken, repository.ErrSlotTaken, repository.ErrSlotTaken}

	_, err := f.usecase.Schedule(context.Background(), bySpecialty(patient.ID, entity.SpecialtyCardiology, monday10am))
	assert.ErrorIs(t, err, ErrSlotConflict)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	assert.Equal(t, maxScheduleAttempts, f.appointments.createCalls)
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.audit.logs)
}

func TestSchedule_HeldSlotLockCountsAsRace(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Nina")
	f.locker.lockedFor = 1

	_, err := f.usecase.Schedule(context.Background(), withDoctor(patient.ID, doctor.ID, monday10am))
	require.NoError(t, err)
	assert.Equal(t, 1, f.locker.acquired)
	assert.Equal(t, 1, f.locker.released)

	f2 := newAppointmentFixture(t, friday9am)
	doctor2 := f2.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient2 := f2.addPatient(t, "Nina")
	f2.locker.lockedFor = 2

	_, err = f2.usecase.Schedule(context.Background(), withDoctor(patient2.ID, doctor2.ID, monday10am))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 0, f2.appointments.createCalls)
}

func TestSchedule_ConcurrentBookingsOfSameSlot(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	first := f.addPatient(t, "Olga")
	second := f.addPatient(t, "Paulo")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, patientID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, patientID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.usecase.Schedule(context.Background(), withDoctor(patientID, doctor.ID, monday10am))
		}(i, patientID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var validationErr *ValidationError
		var conflict *ConflictError
		assert.True(t, errors.As(err, &validationErr) || errors.As(err, &conflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.appointments.activeCount())
}

func TestSchedule_RecordsAuditAndPublishes(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Quel")

	resp, err := f.usecase.Schedule(context.Background(), withDoctor(patient.ID, doctor.ID, monday10am))
	require.NoError(t, err)

	assert.Equal(t, []string{entity.AuditActionAppointmentSchedule}, f.audit.actions())
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, service.EventAppointmentScheduled, event.Type)
	assert.Equal(t, resp.ID, event.AppointmentID)
	assert.Equal(t, doctor.ID, event.DoctorID)
}

func TestSchedule_PublishFailureIsNotFatal(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Rita")
	f.publisher.err = errors.New("broker down")

	_, err := f.usecase.Schedule(context.Background(), withDoctor(patient.ID, doctor.ID, monday10am))
	assert.NoError(t, err)
	assert.Equal(t, 1, f.appointments.activeCount())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*appointmentFixture, *dto.AppointmentResponse) {
		f := newAppointmentFixture(t, friday9am)
		doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
		patient := f.addPatient(t, "Sara")
		resp, err := f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, monday10am))
		require.NoError(t, err)
		return f, resp
	}

	t.Run("unknown appointment", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.usecase.Cancel(ctx, &dto.CancelAppointmentRequest{AppointmentID: uuid.New(), Reason: string(entity.CancellationOther)})
		var notFound *NotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "appointment", notFound.Entity)
	})

	t.Run("invalid reason", func(t *testing.T) {
		f, appointment := setup(t)
		_, err := f.usecase.Cancel(ctx, &dto.CancelAppointmentRequest{AppointmentID: appointment.ID, Reason: "BORED"})
		assert.ErrorIs(t, err, ErrInvalidCancellationReason)
	})

	t.Run("future appointment keeps its row", func(t *testing.T) {
		f, appointment := setup(t)
		resp, err := f.usecase.Cancel(ctx, &dto.CancelAppointmentRequest{AppointmentID: appointment.ID, Reason: string(entity.CancellationPatientCancel)})
		require.NoError(t, err)
		assert.Equal(t, string(entity.CancellationPatientCancel), resp.CancellationReason)
		require.NotNil(t, resp.CancelledAt)
		assert.True(t, friday9am.Equal(*resp.CancelledAt))

		stored, err := f.usecase.Get(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Equal(t, string(entity.CancellationPatientCancel), stored.CancellationReason)

		assert.Equal(t, []string{entity.AuditActionAppointmentSchedule, entity.AuditActionAppointmentCancel}, f.audit.actions())
		require.Len(t, f.publisher.events, 2)
		assert.Equal(t, service.EventAppointmentCancelled, f.publisher.events[1].Type)
		assert.Equal(t, string(entity.CancellationPatientCancel), f.publisher.events[1].CancellationReason)
	})

	t.Run("twice", func(t *testing.T) {
		f, appointment := setup(t)
		req := &dto.CancelAppointmentRequest{AppointmentID: appointment.ID, Reason: string(entity.CancellationPatientNoShow)}
		_, err := f.usecase.Cancel(ctx, req)
		require.NoError(t, err)

		_, err = f.usecase.Cancel(ctx, req)
		assert.ErrorIs(t, err, ErrAppointmentAlreadyCancelled)
	})

	t.Run("past appointment", func(t *testing.T) {
		f, _ := setup(t)
		past := &entity.Appointment{DoctorID: uuid.New(), PatientID: uuid.New(), DateTime: friday9am.Add(-24 * time.Hour)}
		require.NoError(t, f.appointments.Create(ctx, past))

		_, err := f.usecase.Cancel(ctx, &dto.CancelAppointmentRequest{AppointmentID: past.ID, Reason: string(entity.CancellationOther)})
		assert.ErrorIs(t, err, ErrCannotCancelPast)
	})
}

func TestGetAndListByPatient(t *testing.T) {
	f := newAppointmentFixture(t, friday9am)
	doctor := f.addDoctor(t, "Dr. Ana", entity.SpecialtyCardiology)
	patient := f.addPatient(t, "Tania")
	ctx := context.Background()

	first, err := f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, monday10am))
	require.NoError(t, err)
	second, err := f.usecase.Schedule(ctx, withDoctor(patient.ID, doctor.ID, monday10am.Add(24*time.Hour)))
	require.NoError(t, err)

	list, err := f.usecase.ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Appointments[0].ID)
	assert.Equal(t, first.ID, list.Appointments[1].ID)

	_, err = f.usecase.ListByPatient(ctx, uuid.New())
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = f.usecase.Get(ctx, uuid.New())
	assert.True(t, errors.As(err, &notFound))
}

package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTransactor runs fn directly and counts calls. Nothing is rolled back.
type fakeTransactor struct {
	mu    sync.Mutex
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fixedRandom always picks index (clamped to n-1) and records the last n.
type fixedRandom struct {
	mu    sync.Mutex
	index int
	lastN int
}

func (r *fixedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastN = n
	if r.index >= n {
		return n - 1
	}
	return r.index
}

// ---- doctors ----

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*entity.Doctor
	err     error
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*entity.Doctor)}
}

func (r *fakeDoctorRepo) Create(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.doctors {
		if existing.Active && doctor.Active && existing.CRM == doctor.CRM {
			return repository.ErrDuplicateCRM
		}
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *fakeDoctorRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if d, ok := r.doctors[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	d, err := r.FindByID(ctx, id)
	if err != nil || d == nil || !d.Active {
		return nil, err
	}
	return d, nil
}

func (r *fakeDoctorRepo) FindActiveBySpecialty(ctx context.Context, specialty entity.Specialty) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Doctor
	for _, d := range r.doctors {
		if d.Active && d.Specialty == specialty {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDoctorRepo) FindAllActive(ctx context.Context, limit, offset int) ([]entity.Doctor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []entity.Doctor
	for _, d := range r.doctors {
		if d.Active {
			active = append(active, *d)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return paginate(active, limit, offset), int64(len(active)), nil
}

func (r *fakeDoctorRepo) Update(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *fakeDoctorRepo) MarkInactive(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok || !d.Active {
		return 0, nil
	}
	d.Active = false
	return 1, nil
}

// ---- patients ----

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.patients {
		if existing.Active && patient.Active && existing.CPF == patient.CPF {
			return repository.ErrDuplicateCPF
		}
	}
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.patients[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePatientRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil || p == nil || !p.Active {
		return nil, err
	}
	return p, nil
}

func (r *fakePatientRepo) FindAllActive(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []entity.Patient
	for _, p := range r.patients {
		if p.Active {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return paginate(active, limit, offset), int64(len(active)), nil
}

func (r *fakePatientRepo) Update(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakePatientRepo) MarkInactive(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || !p.Active {
		return 0, nil
	}
	p.Active = false
	return 1, nil
}

// ---- appointments ----

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	// createErrs are returned, in order, by the next Create calls
	createErrs  []error
	createCalls int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.appointments {
		if !existing.IsCancelled() && existing.DoctorID == appointment.DoctorID && existing.DateTime.Equal(appointment.DateTime) {
			return repository.ErrSlotTaken
		}
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	stored := *appointment
	r.appointments[appointment.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorAndDateTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if !a.IsCancelled() && a.DoctorID == doctorID && a.DateTime.Equal(dateTime) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindBusyDoctorIDs(ctx context.Context, dateTime time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, a := range r.appointments {
		if !a.IsCancelled() && a.DateTime.Equal(dateTime) {
			ids = append(ids, a.DoctorID)
		}
	}
	return ids, nil
}

func (r *fakeAppointmentRepo) ExistsActiveForPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if !a.IsCancelled() && a.PatientID == patientID && !a.DateTime.Before(from) && a.DateTime.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.After(out[j].DateTime) })
	return out, nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id uuid.UUID, reason entity.CancellationReason, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.IsCancelled() {
		return 0, nil
	}
	a.Cancel(reason, at)
	return 1, nil
}

func (r *fakeAppointmentRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.appointments {
		if !a.IsCancelled() {
			n++
		}
	}
	return n
}

// ---- audit ----

type fakeAuditLogRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(ctx context.Context, limit, offset int) ([]entity.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return paginate(r.logs, limit, offset), int64(len(r.logs)), nil
}

func (r *fakeAuditLogRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].ID == id {
			copied := r.logs[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditLogRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}

// ---- services ----

// fakeSlotLocker rejects the first lockedFor acquires, then grants locks.
type fakeSlotLocker struct {
	mu        sync.Mutex
	lockedFor int
	acquired  int
	released  int
}

func (l *fakeSlotLocker) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lockedFor > 0 {
		l.lockedFor--
		return nil, service.ErrSlotLocked
	}
	l.acquired++
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
	err    error
}

func (p *recordingPublisher) PublishAppointmentEvent(ctx context.Context, event service.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

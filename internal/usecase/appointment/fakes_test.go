package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

// memRepo is an in-memory store that enforces the same
// (doctor, date, time) uniqueness as the database index.
type memRepo struct {
	mu sync.Mutex

	clinics      map[uuid.UUID]*models.Clinic
	doctors      map[uuid.UUID]*models.Doctor
	pets         map[string]*models.Pet
	appointments map[uuid.UUID]*models.Appointment

	// blindPrecheck makes HasConflict always answer false so inserts race
	// straight into the unique check.
	blindPrecheck bool
	inserts       int
}

func newMemRepo() *memRepo {
	return &memRepo{
		clinics:      map[uuid.UUID]*models.Clinic{},
		doctors:      map[uuid.UUID]*models.Doctor{},
		pets:         map[string]*models.Pet{},
		appointments: map[uuid.UUID]*models.Appointment{},
	}
}

func (r *memRepo) GetPetByCode(_ context.Context, code string) (*models.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pets[code]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) GetDoctorByID(_ context.Context, id uuid.UUID) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memRepo) GetClinicByID(_ context.Context, id uuid.UUID) (*models.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clinics[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) GetClinicByUserID(_ context.Context, userID uuid.UUID) (*models.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clinics {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *memRepo) HasConflict(_ context.Context, doctorID uuid.UUID, date, hhmmss string) (bool, error) {
	if r.blindPrecheck {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slotTakenLocked(doctorID, date, hhmmss), nil
}

func (r *memRepo) slotTakenLocked(doctorID uuid.UUID, date, hhmmss string) bool {
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.AppointmentTime == hhmmss {
			return true
		}
	}
	return false
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotTakenLocked(ap.DoctorID, ap.AppointmentDate, ap.AppointmentTime) {
		return gorm.ErrDuplicatedKey
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	r.inserts++
	return nil
}

func (r *memRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) GetAppointmentInClinic(_ context.Context, appointmentID, clinicID uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[appointmentID]
	if !ok || r.doctors[a.DoctorID].ClinicID != clinicID {
		return nil, domain.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) GetAppointmentClinic(_ context.Context, appointmentID uuid.UUID) (*models.Appointment, uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[appointmentID]
	if !ok {
		return nil, uuid.Nil, domain.ErrRecordNotFound
	}
	cp := *a
	return &cp, r.doctors[a.DoctorID].ClinicID, nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, id)
	return nil
}

func (r *memRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, status appt.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	a.Status = string(status)
	a.UpdatedAt = updatedAt
	return nil
}

func (r *memRepo) ListBookedTimes(_ context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate == date {
			out = append(out, a.AppointmentTime)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, clinicID uuid.UUID, fromDate, toDate string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.appointments {
		d := r.doctors[a.DoctorID]
		if d.ClinicID != clinicID || a.AppointmentDate < fromDate || a.AppointmentDate > toDate {
			continue
		}
		cp := *a
		cp.Doctor = *d
		for _, p := range r.pets {
			if p.ID == a.PetID {
				cp.Pet = *p
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

// fixture seeds one clinic with an owner, a Monday-Friday 08:00-12:00
// doctor and one pet.
type fixture struct {
	repo   *memRepo
	owner  *session.Session
	other  *session.Session
	clinic *models.Clinic
	doctor *models.Doctor
	pet    *models.Pet
}

func newFixture() *fixture {
	repo := newMemRepo()

	ownerID := uuid.New()
	clinic := &models.Clinic{ID: uuid.New(), UserID: ownerID, Name: "Clínica Centro", Timezone: "UTC"}
	doctor := &models.Doctor{
		ID:                   uuid.New(),
		ClinicID:             clinic.ID,
		Name:                 "Dra. Ana",
		AvailableFromWeekDay: 1,
		AvailableToWeekDay:   5,
		AvailableFromTime:    "08:00:00",
		AvailableToTime:      "12:00:00",
	}
	pet := &models.Pet{ID: uuid.New(), Code: "123456", TutorID: uuid.New(), Name: "Rex", Species: "cão"}

	repo.clinics[clinic.ID] = clinic
	repo.doctors[doctor.ID] = doctor
	repo.pets[pet.Code] = pet

	return &fixture{
		repo:   repo,
		owner:  &session.Session{User: &session.User{ID: ownerID, Role: models.RoleClinic}},
		other:  &session.Session{User: &session.User{ID: uuid.New(), Role: models.RoleClinic}},
		clinic: clinic,
		doctor: doctor,
		pet:    pet,
	}
}

func (f *fixture) seedAppointment(date, hhmmss string, status appt.Status) *models.Appointment {
	ap := &models.Appointment{
		ID:              uuid.New(),
		PetID:           f.pet.ID,
		DoctorID:        f.doctor.ID,
		AppointmentDate: date,
		AppointmentTime: hhmmss,
		Status:          string(status),
	}
	f.repo.appointments[ap.ID] = ap
	return ap
}

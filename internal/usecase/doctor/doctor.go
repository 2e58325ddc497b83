package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/ownership"
)

type Repository interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	UpdateDoctor(ctx context.Context, doctor *models.Doctor) error
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]models.Doctor, error)
	CountDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) (int64, error)
	CountAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
	GetActivePlan(ctx context.Context, clinicID uuid.UUID) (*models.Plan, error)
}

type Guard interface {
	AuthorizeClinicOwnership(ctx context.Context, sess *session.Session, clinicID uuid.UUID) (*models.Clinic, error)
	AuthorizeDoctorOwnership(ctx context.Context, sess *session.Session, doctorID uuid.UUID) (*ownership.DoctorOwnership, error)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Input carries every editable doctor field. Times accept HH:MM or
// HH:MM:SS and are stored as HH:MM:SS.
type Input struct {
	Name                    string
	CRMV                    string
	Specialty               string
	AppointmentPriceInCents int64
	AvailableFromWeekDay    int
	AvailableToWeekDay      int
	AvailableFromTime       string
	AvailableToTime         string
}

func (in Input) validate() (from, to string, err error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", "", httperr.ErrValidation("invalid_name")
	}
	if in.AppointmentPriceInCents < 0 {
		return "", "", httperr.ErrValidation("invalid_price")
	}
	if err := appt.ValidateWindow(
		in.AvailableFromWeekDay,
		in.AvailableToWeekDay,
		in.AvailableFromTime,
		in.AvailableToTime,
	); err != nil {
		return "", "", err
	}

	from, _ = appt.NormalizeTime(in.AvailableFromTime)
	to, _ = appt.NormalizeTime(in.AvailableToTime)
	return from, to, nil
}

func (in Input) apply(d *models.Doctor, from, to string) {
	d.Name = strings.TrimSpace(in.Name)
	d.CRMV = strings.TrimSpace(in.CRMV)
	d.Specialty = strings.TrimSpace(in.Specialty)
	d.AppointmentPriceInCents = in.AppointmentPriceInCents
	d.AvailableFromWeekDay = in.AvailableFromWeekDay
	d.AvailableToWeekDay = in.AvailableToWeekDay
	d.AvailableFromTime = from
	d.AvailableToTime = to
}

type Service struct {
	repo  Repository
	guard Guard
	audit Auditor
	now   func() time.Time
}

func NewService(repo Repository, guard Guard, audit Auditor) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(
	ctx context.Context,
	sess *session.Session,
	clinicID uuid.UUID,
	in Input,
) (*models.Doctor, error) {

	from, to, err := in.validate()
	if err != nil {
		return nil, err
	}

	clinic, err := s.guard.AuthorizeClinicOwnership(ctx, sess, clinicID)
	if err != nil {
		return nil, err
	}

	if err := s.checkPlanLimit(ctx, clinic.ID); err != nil {
		return nil, err
	}

	now := s.now()
	d := &models.Doctor{
		ID:        uuid.New(),
		ClinicID:  clinic.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(d, from, to)

	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	s.audit.Dispatch(audit.Event{
		ClinicID: clinic.ID,
		UserID:   sess.UserID(),
		Action:   "doctor_created",
		Entity:   "doctor",
		EntityID: d.ID,
		Metadata: map[string]any{"name": d.Name},
	})

	return d, nil
}

// checkPlanLimit caps the doctor count at the active plan's MaxDoctors.
// Clinics without an active subscription are not limited.
func (s *Service) checkPlanLimit(ctx context.Context, clinicID uuid.UUID) error {
	plan, err := s.repo.GetActivePlan(ctx, clinicID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}
	if plan.MaxDoctors <= 0 {
		return nil
	}

	count, err := s.repo.CountDoctorsByClinic(ctx, clinicID)
	if err != nil {
		return fmt.Errorf("counting doctors: %w", err)
	}
	if count >= int64(plan.MaxDoctors) {
		return httperr.ErrBusiness("doctor_limit_reached")
	}
	return nil
}

func (s *Service) Update(
	ctx context.Context,
	sess *session.Session,
	doctorID uuid.UUID,
	in Input,
) (*models.Doctor, error) {

	from, to, err := in.validate()
	if err != nil {
		return nil, err
	}

	owned, err := s.guard.AuthorizeDoctorOwnership(ctx, sess, doctorID)
	if err != nil {
		return nil, err
	}

	d := owned.Doctor
	in.apply(d, from, to)
	d.UpdatedAt = s.now()

	if err := s.repo.UpdateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("updating doctor: %w", err)
	}

	s.audit.Dispatch(audit.Event{
		ClinicID: owned.Clinic.ID,
		UserID:   sess.UserID(),
		Action:   "doctor_updated",
		Entity:   "doctor",
		EntityID: d.ID,
	})

	return d, nil
}

func (s *Service) Delete(
	ctx context.Context,
	sess *session.Session,
	doctorID uuid.UUID,
) error {

	owned, err := s.guard.AuthorizeDoctorOwnership(ctx, sess, doctorID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountAppointmentsByDoctor(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("counting appointments: %w", err)
	}
	if count > 0 {
		return httperr.ErrBusiness("doctor_has_appointments")
	}

	if err := s.repo.DeleteDoctor(ctx, doctorID); err != nil {
		// an appointment booked after the count still blocks the delete
		if httperr.IsForeignKeyViolation(err) {
			return httperr.ErrBusiness("doctor_has_appointments")
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrNotFound("doctor")
		}
		return fmt.Errorf("deleting doctor: %w", err)
	}

	s.audit.Dispatch(audit.Event{
		ClinicID: owned.Clinic.ID,
		UserID:   sess.UserID(),
		Action:   "doctor_deleted",
		Entity:   "doctor",
		EntityID: doctorID,
		Metadata: map[string]any{"name": owned.Doctor.Name},
	})

	return nil
}

// List is public: patients' tutors pick a doctor from it.
func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]models.Doctor, error) {
	doctors, err := s.repo.ListDoctorsByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return doctors, nil
}

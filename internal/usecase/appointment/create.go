package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PetCode      string
	DoctorID     uuid.UUID
	Date         string
	Time         string
	PriceInCents int64
	Session      *session.Session
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	guard Guard
	audit Auditor
	now   func() time.Time

	onConflict func(source string)
}

func NewCreateAppointment(
	repo domain.Repository,
	guard Guard,
	audit Auditor,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		guard: guard,
		audit: audit,
		now:   utcNow,

		onConflict: func(string) {},
	}
}

// OnConflict registers fn to be told where a slot conflict was caught:
// "precheck" or "unique_index".
func (uc *CreateAppointment) OnConflict(fn func(source string)) *CreateAppointment {
	uc.onConflict = fn
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books a slot. Checks run in a fixed order and stop at the first
// failure: pet, doctor ownership, availability window, slot conflict.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.PriceInCents < 0 {
		return nil, httperr.ErrValidation("invalid_price")
	}
	day, ok := domain.ParseDate(in.Date)
	if !ok {
		return nil, httperr.ErrValidation("invalid_date")
	}
	date := day.Format(domain.DateLayout)
	slotTime, ok := domain.NormalizeSlotTime(in.Time)
	if !ok {
		return nil, httperr.ErrValidation("invalid_time")
	}

	// --------------------------------------------------
	// 1️⃣ Pet
	// --------------------------------------------------
	pet, err := uc.repo.GetPetByCode(ctx, strings.TrimSpace(in.PetCode))
	if err != nil {
		return nil, notFoundOr(err, "pet")
	}

	// --------------------------------------------------
	// 2️⃣ Veterinário + dono da clínica
	// --------------------------------------------------
	owned, err := uc.guard.AuthorizeDoctorOwnership(ctx, in.Session, in.DoctorID)
	if err != nil {
		return nil, err
	}
	doctor := owned.Doctor

	// --------------------------------------------------
	// 3️⃣ Disponibilidade do veterinário
	// --------------------------------------------------
	if !domain.IsDateAvailable(date, doctor.AvailableFromWeekDay, doctor.AvailableToWeekDay) {
		return nil, httperr.ErrBusiness("doctor_unavailable_on_date")
	}
	if !domain.IsTimeOnGrid(doctor.AvailableFromTime, doctor.AvailableToTime, slotTime) {
		return nil, httperr.ErrBusiness("time_outside_availability")
	}

	// --------------------------------------------------
	// 4️⃣ Conflito de horário (pré-checagem)
	// --------------------------------------------------
	taken, err := uc.repo.HasConflict(ctx, doctor.ID, date, slotTime)
	if err != nil {
		return nil, fmt.Errorf("checking slot: %w", err)
	}
	if taken {
		uc.onConflict("precheck")
		return nil, httperr.ErrSlotTaken
	}

	// --------------------------------------------------
	// 5️⃣ Criação (o índice único decide corridas)
	// --------------------------------------------------
	now := uc.now()
	ap := &models.Appointment{
		ID:              uuid.New(),
		PetID:           pet.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		AppointmentTime: slotTime,
		PriceInCents:    in.PriceInCents,
		Status:          string(domain.InitialStatus()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsUniqueViolation(err) {
			uc.onConflict("unique_index")
			return nil, httperr.ErrSlotTaken
		}
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	// --------------------------------------------------
	// 6️⃣ Releitura
	// --------------------------------------------------
	created, err := uc.repo.GetAppointmentByID(ctx, ap.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading appointment: %w", err)
	}

	userID := in.Session.UserID()
	uc.audit.Dispatch(audit.Event{
		ClinicID: owned.Clinic.ID,
		UserID:   userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: created.ID,
		Metadata: map[string]any{
			"doctor_id": doctor.ID,
			"pet_code":  pet.Code,
			"date":      created.AppointmentDate,
			"time":      created.AppointmentTime,
		},
	})

	return created, nil
}

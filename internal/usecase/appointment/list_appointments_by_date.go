package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/dto"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type ListAppointmentsByDate struct {
	repo  domain.Repository
	guard Guard
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	guard Guard,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:  repo,
		guard: guard,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	sess *session.Session,
	clinicID uuid.UUID,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, ok := domain.ParseDate(date)
	if !ok {
		return nil, httperr.ErrValidation("invalid_date")
	}
	date = day.Format(domain.DateLayout)

	if _, err := uc.guard.AuthorizeClinicOwnership(ctx, sess, clinicID); err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, clinicID, date, date)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	return toListDTO(appointments), nil
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:              ap.ID,
			AppointmentDate: ap.AppointmentDate,
			AppointmentTime: ap.AppointmentTime,
			Status:          ap.Status,
			PriceInCents:    ap.PriceInCents,
			DoctorID:        ap.DoctorID,
			DoctorName:      ap.Doctor.Name,
			PetCode:         ap.Pet.Code,
			PetName:         ap.Pet.Name,
		})
	}
	return out
}

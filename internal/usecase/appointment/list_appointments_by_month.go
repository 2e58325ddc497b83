package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/dto"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type ListAppointmentsByMonth struct {
	repo  domain.Repository
	guard Guard
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	guard Guard,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:  repo,
		guard: guard,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	sess *session.Session,
	clinicID uuid.UUID,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_date")
	}

	if _, err := uc.guard.AuthorizeClinicOwnership(ctx, sess, clinicID); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		clinicID,
		first.Format(domain.DateLayout),
		last.Format(domain.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	return toListDTO(appointments), nil
}

package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute lists the doctor's slots for date. Booked slots, and slots already
// past in the clinic's timezone, come back with Available=false. A date
// outside the doctor's week-day window yields no slots at all.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID uuid.UUID,
	date string,
) ([]domain.TimeSlot, error) {

	day, ok := domain.ParseDate(date)
	if !ok {
		return nil, httperr.ErrValidation("invalid_date")
	}
	date = day.Format(domain.DateLayout)

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, notFoundOr(err, "doctor")
	}

	slots := []domain.TimeSlot{}
	if !domain.IsDateAvailable(date, doctor.AvailableFromWeekDay, doctor.AvailableToWeekDay) {
		return slots, nil
	}

	clinic, err := uc.repo.GetClinicByID(ctx, doctor.ClinicID)
	if err != nil {
		return nil, notFoundOr(err, "clinic")
	}
	loc := timezone.Location(clinic.Timezone)

	booked, err := uc.repo.ListBookedTimes(ctx, doctor.ID, date)
	if err != nil {
		return nil, fmt.Errorf("listing booked slots: %w", err)
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	now := uc.now()
	for slot := range domain.GenerateTimeOptions(doctor.AvailableFromTime, doctor.AvailableToTime) {
		_, isTaken := taken[slot]
		slots = append(slots, domain.TimeSlot{
			Time:      slot,
			Available: !isTaken && !domain.IsPast(date, slot, now, loc),
		})
	}

	return slots, nil
}

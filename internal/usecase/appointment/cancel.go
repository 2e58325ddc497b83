package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type CancelAppointment struct {
	repo  domain.Repository
	guard Guard
	audit Auditor
}

func NewCancelAppointment(
	repo domain.Repository,
	guard Guard,
	audit Auditor,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		guard: guard,
		audit: audit,
	}
}

// Execute removes the appointment. It is a hard delete; only the audit log
// keeps a trace of it.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
	clinicID uuid.UUID,
	sess *session.Session,
) error {

	if _, err := uc.guard.AuthorizeClinicOwnership(ctx, sess, clinicID); err != nil {
		return err
	}

	ap, err := uc.repo.GetAppointmentInClinic(ctx, appointmentID, clinicID)
	if err != nil {
		return notFoundOr(err, "appointment")
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   sess.UserID(),
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"doctor_id": ap.DoctorID,
			"date":      ap.AppointmentDate,
			"time":      ap.AppointmentTime,
			"status":    ap.Status,
		},
	})

	return nil
}

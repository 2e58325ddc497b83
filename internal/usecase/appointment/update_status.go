package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	domain "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type UpdateAppointmentStatus struct {
	repo        domain.Repository
	guard       Guard
	audit       Auditor
	transitions domain.Transitions
	now         func() time.Time
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	guard Guard,
	audit Auditor,
	transitions domain.Transitions,
) *UpdateAppointmentStatus {
	if transitions == nil {
		transitions = domain.PermissiveTransitions
	}
	return &UpdateAppointmentStatus{
		repo:        repo,
		guard:       guard,
		audit:       audit,
		transitions: transitions,
		now:         utcNow,
	}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
	status string,
	sess *session.Session,
) error {

	target, err := domain.ParseStatus(status)
	if err != nil {
		return err
	}

	ap, clinicID, err := uc.repo.GetAppointmentClinic(ctx, appointmentID)
	if err != nil {
		return notFoundOr(err, "appointment")
	}

	if _, err := uc.guard.AuthorizeClinicOwnership(ctx, sess, clinicID); err != nil {
		return err
	}

	current := domain.Status(ap.Status)
	if err := uc.transitions.Check(current, target); err != nil {
		return err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap.ID, target, uc.now()); err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   sess.UserID(),
		Action:   "appointment_status_updated",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"from": current,
			"to":   target,
		},
	})

	return nil
}

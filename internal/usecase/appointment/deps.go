package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/ownership"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Guard is the subset of ownership.Guard the appointment use cases need.
type Guard interface {
	AuthorizeClinicOwnership(ctx context.Context, sess *session.Session, clinicID uuid.UUID) (*models.Clinic, error)
	AuthorizeDoctorOwnership(ctx context.Context, sess *session.Session, doctorID uuid.UUID) (*ownership.DoctorOwnership, error)
}

var _ Guard = (*ownership.Guard)(nil)

func utcNow() time.Time {
	return time.Now().UTC()
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(entity)
	}
	return fmt.Errorf("loading %s: %w", entity, err)
}

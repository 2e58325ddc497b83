package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type Repository interface {
	GetClinicByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
	GetClinicByUserID(ctx context.Context, userID uuid.UUID) (*models.Clinic, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error)
}

type DoctorOwnership struct {
	Doctor *models.Doctor
	Clinic *models.Clinic
}

// Guard ties a mutation to the session user owning the clinic involved.
// Nothing is cached: every call re-reads clinic and doctor.
type Guard struct {
	repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

func (g *Guard) AuthorizeClinicOwnership(
	ctx context.Context,
	sess *session.Session,
	clinicID uuid.UUID,
) (*models.Clinic, error) {

	if !sess.Authenticated() {
		return nil, httperr.ErrUnauthenticated()
	}

	clinic, err := g.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, notFoundOr(err, "clinic")
	}

	if clinic.UserID != sess.UserID() {
		return nil, httperr.ErrForbidden()
	}

	return clinic, nil
}

func (g *Guard) AuthorizeDoctorOwnership(
	ctx context.Context,
	sess *session.Session,
	doctorID uuid.UUID,
) (*DoctorOwnership, error) {

	if !sess.Authenticated() {
		return nil, httperr.ErrUnauthenticated()
	}

	doctor, err := g.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, notFoundOr(err, "doctor")
	}

	clinic, err := g.AuthorizeClinicOwnership(ctx, sess, doctor.ClinicID)
	if err != nil {
		return nil, err
	}

	return &DoctorOwnership{Doctor: doctor, Clinic: clinic}, nil
}

// ClinicForSession resolves the clinic owned by the session user.
func (g *Guard) ClinicForSession(
	ctx context.Context,
	sess *session.Session,
) (*models.Clinic, error) {

	if !sess.Authenticated() {
		return nil, httperr.ErrUnauthenticated()
	}

	clinic, err := g.repo.GetClinicByUserID(ctx, sess.UserID())
	if err != nil {
		return nil, notFoundOr(err, "clinic")
	}
	return clinic, nil
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(entity)
	}
	return fmt.Errorf("loading %s: %w", entity, err)
}

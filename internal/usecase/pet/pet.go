package pet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/imaging"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

const (
	codeDigits  = 6
	codeRetries = 5
)

// ErrStorageDisabled is returned by UploadPhoto when no photo store is
// configured.
var ErrStorageDisabled = errors.New("photo storage disabled")

type Repository interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPetByCode(ctx context.Context, code string) (*models.Pet, error)
	UpdatePetPhoto(ctx context.Context, id uuid.UUID, photoURL string) error
}

type PhotoStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	BirthDate string
}

type Service struct {
	repo    Repository
	store   PhotoStore
	newCode func() (string, error)
}

// NewService accepts a nil store; photo uploads then fail with
// ErrStorageDisabled.
func NewService(repo Repository, store PhotoStore) *Service {
	return &Service{
		repo:    repo,
		store:   store,
		newCode: randomCode,
	}
}

// randomCode draws a zero padded decimal code, e.g. "004217".
func randomCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// Create registers a pet for the tutor in sess, retrying the code draw when
// it collides with an existing one.
func (s *Service) Create(ctx context.Context, sess *session.Session, in CreateInput) (*models.Pet, error) {
	if !sess.Authenticated() {
		return nil, httperr.ErrUnauthenticated()
	}
	if sess.User.Role != models.RoleTutor {
		return nil, httperr.ErrRoleNotAllowed()
	}

	now := time.Now().UTC()
	pet := &models.Pet{
		TutorID:   sess.UserID(),
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: strings.TrimSpace(in.BirthDate),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generating pet code: %w", err)
		}

		pet.ID = uuid.New()
		pet.Code = code

		err = s.repo.CreatePet(ctx, pet)
		if err == nil {
			return pet, nil
		}
		if !httperr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("creating pet: %w", err)
		}
	}

	return nil, httperr.ErrConflict("pet_code_exhausted")
}

func (s *Service) Get(ctx context.Context, sess *session.Session, code string) (*models.Pet, error) {
	if !sess.Authenticated() {
		return nil, httperr.ErrUnauthenticated()
	}

	pet, err := s.repo.GetPetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("pet")
		}
		return nil, fmt.Errorf("loading pet: %w", err)
	}
	return pet, nil
}

// UploadPhoto replaces the pet's photo. Only the pet's tutor may do it.
func (s *Service) UploadPhoto(
	ctx context.Context,
	sess *session.Session,
	code string,
	photo io.Reader,
) (*models.Pet, error) {

	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	pet, err := s.Get(ctx, sess, code)
	if err != nil {
		return nil, err
	}
	if pet.TutorID != sess.UserID() {
		return nil, httperr.ErrForbidden()
	}

	body, err := imaging.ToWebP(photo)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, httperr.ErrValidation("unsupported_image")
		}
		return nil, fmt.Errorf("converting photo: %w", err)
	}

	key := fmt.Sprintf("pets/%s/%s.webp", pet.Code, uuid.NewString())
	url, err := s.store.Put(ctx, key, body, "image/webp")
	if err != nil {
		return nil, fmt.Errorf("storing photo: %w", err)
	}

	if err := s.repo.UpdatePetPhoto(ctx, pet.ID, url); err != nil {
		return nil, fmt.Errorf("saving photo url: %w", err)
	}
	pet.PhotoURL = url

	return pet, nil
}

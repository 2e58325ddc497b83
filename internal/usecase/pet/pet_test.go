package pet

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type repoStub struct {
	pets map[string]*models.Pet
}

func (r *repoStub) CreatePet(_ context.Context, p *models.Pet) error {
	if _, ok := r.pets[p.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *p
	r.pets[p.Code] = &cp
	return nil
}

func (r *repoStub) GetPetByCode(_ context.Context, code string) (*models.Pet, error) {
	if p, ok := r.pets[code]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (r *repoStub) UpdatePetPhoto(_ context.Context, id uuid.UUID, url string) error {
	for _, p := range r.pets {
		if p.ID == id {
			p.PhotoURL = url
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

type storeStub struct{ keys []string }

func (s *storeStub) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://cdn.example/" + key, nil
}

func tutor() *session.Session {
	return &session.Session{User: &session.User{ID: uuid.New(), Role: models.RoleTutor}}
}

func TestRandomCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	repo := &repoStub{pets: map[string]*models.Pet{"111111": {Code: "111111"}}}
	svc := NewService(repo, nil)

	codes := []string{"111111", "111111", "222222"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	pet, err := svc.Create(context.Background(), tutor(), CreateInput{Name: " Rex ", Species: "cão"})
	require.NoError(t, err)
	assert.Equal(t, "222222", pet.Code)
	assert.Equal(t, "Rex", pet.Name)
}

func TestCreateGivesUpAfterRetries(t *testing.T) {
	repo := &repoStub{pets: map[string]*models.Pet{"111111": {Code: "111111"}}}
	svc := NewService(repo, nil)
	svc.newCode = func() (string, error) { return "111111", nil }

	_, err := svc.Create(context.Background(), tutor(), CreateInput{Name: "Rex", Species: "cão"})
	assert.True(t, httperr.IsBusiness(err, "pet_code_exhausted"))
}

func TestCreateRoles(t *testing.T) {
	svc := NewService(&repoStub{pets: map[string]*models.Pet{}}, nil)

	_, err := svc.Create(context.Background(), nil, CreateInput{Name: "Rex"})
	assert.Equal(t, httperr.KindUnauthenticated, httperr.KindOf(err))

	clinic := &session.Session{User: &session.User{ID: uuid.New(), Role: models.RoleClinic}}
	_, err = svc.Create(context.Background(), clinic, CreateInput{Name: "Rex"})
	assert.True(t, httperr.IsBusiness(err, "role_not_allowed"))
}

func TestGetKeepsLeadingZeros(t *testing.T) {
	repo := &repoStub{pets: map[string]*models.Pet{"000042": {Code: "000042", Name: "Mia"}}}
	svc := NewService(repo, nil)

	pet, err := svc.Get(context.Background(), tutor(), "000042")
	require.NoError(t, err)
	assert.Equal(t, "Mia", pet.Name)

	_, err = svc.Get(context.Background(), tutor(), "42")
	assert.True(t, httperr.IsBusiness(err, "pet_not_found"))
}

func TestUploadPhoto(t *testing.T) {
	owner := tutor()
	repo := &repoStub{pets: map[string]*models.Pet{
		"123456": {ID: uuid.New(), Code: "123456", TutorID: owner.UserID()},
	}}
	store := &storeStub{}
	svc := NewService(repo, store)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))

	pet, err := svc.UploadPhoto(context.Background(), owner, "123456", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "pets/123456/"))
	assert.Equal(t, "https://cdn.example/"+store.keys[0], pet.PhotoURL)
	assert.Equal(t, pet.PhotoURL, repo.pets["123456"].PhotoURL)

	_, err = svc.UploadPhoto(context.Background(), tutor(), "123456", bytes.NewReader(buf.Bytes()))
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	_, err = svc.UploadPhoto(context.Background(), owner, "123456", strings.NewReader("text"))
	assert.True(t, httperr.IsBusiness(err, "unsupported_image"))

	_, err = NewService(repo, nil).UploadPhoto(context.Background(), owner, "123456", nil)
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

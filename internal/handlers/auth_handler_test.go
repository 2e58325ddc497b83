package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	clinics map[uuid.UUID]*models.Clinic
}

func newMemUsers() *memUsers {
	return &memUsers{
		byEmail: map[string]*models.User{},
		clinics: map[uuid.UUID]*models.Clinic{},
	}
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return u, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User, clinic *models.Clinic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.byEmail[user.Email] = user
	if clinic != nil {
		clinic.UserID = user.ID
		m.clinics[clinic.ID] = clinic
	}
	return nil
}

func newAuthRouter(users *memUsers) *gin.Engine {
	h := NewAuthHandler(users, auth.NewTokenService("test-secret", time.Hour), zap.NewNop())
	h.emailDomain = func(string) bool { return true }

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	r := newAuthRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/register", map[string]string{
		"name":     "Ana",
		"email":    "Ana@Example.com",
		"password": "secret123",
		"role":     "TUTOR",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])
	assert.NotContains(t, w.Body.String(), "secret123")

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAuthRouter(newMemUsers())
	body := map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret123",
		"role":     "TUTOR",
	}

	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", body).Code)

	w := doJSON(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_registered", decode(t, w)["error"])
}

func TestRegisterClinic(t *testing.T) {
	users := newMemUsers()
	r := newAuthRouter(users)

	base := func() map[string]string {
		return map[string]string{
			"name":     "Dra. Paula",
			"email":    "paula@clinica.com",
			"password": "secret123",
			"role":     "CLINIC",
		}
	}

	w := doJSON(r, http.MethodPost, "/auth/register", base())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "clinic_required", decode(t, w)["error"])

	body := base()
	body["clinic_name"] = "Clínica Patas"
	body["timezone"] = "Mars/Olympus"
	w = doJSON(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_timezone", decode(t, w)["error"])

	delete(body, "timezone")
	w = doJSON(r, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	clinic, ok := decode(t, w)["clinic"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "America/Sao_Paulo", clinic["timezone"])
	assert.Len(t, users.clinics, 1)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r := newAuthRouter(newMemUsers())

	w := doJSON(r, http.MethodPost, "/auth/register", map[string]string{
		"name":     "Root",
		"email":    "root@example.com",
		"password": "secret123",
		"role":     "ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])
}

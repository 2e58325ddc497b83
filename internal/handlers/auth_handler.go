package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/timezone"
	"github.com/BruksfildServices01/vetclinic-api/internal/validators"
)

type userStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, clinic *models.Clinic) error
}

type AuthHandler struct {
	users       userStore
	tokens      *auth.TokenService
	log         *zap.Logger
	emailDomain func(email string) bool
}

func NewAuthHandler(users userStore, tokens *auth.TokenService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:       users,
		tokens:      tokens,
		log:         log,
		emailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required,notblank,max=100"`
	Email    string      `json:"email" binding:"required,email,max=100"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Phone    string      `json:"phone" binding:"max=20"`
	Role     models.Role `json:"role" binding:"required,oneof=CLINIC TUTOR"`

	ClinicName    string `json:"clinic_name" binding:"max=100"`
	ClinicPhone   string `json:"clinic_phone" binding:"max=20"`
	ClinicAddress string `json:"clinic_address" binding:"max=255"`
	Timezone      string `json:"timezone" binding:"max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", httperr.MessageFor("invalid_email_domain"))
		return
	}

	var clinic *models.Clinic
	if req.Role == models.RoleClinic {
		if strings.TrimSpace(req.ClinicName) == "" {
			httperr.Respond(c, h.log, httperr.ErrValidation("clinic_required"))
			return
		}

		tz := req.Timezone
		if tz == "" {
			tz = timezone.DefaultTimezone
		}
		if !timezone.IsValid(tz) {
			httperr.Respond(c, h.log, httperr.ErrValidation("invalid_timezone"))
			return
		}

		clinic = &models.Clinic{
			ID:       uuid.New(),
			Name:     strings.TrimSpace(req.ClinicName),
			Phone:    req.ClinicPhone,
			Address:  req.ClinicAddress,
			Timezone: tz,
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(c.Request.Context(), user, clinic); err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, h.log, httperr.ErrConflict("email_already_registered"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
		"clinic":  clinic,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", httperr.MessageFor("invalid_credentials"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", httperr.MessageFor("invalid_credentials"))
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

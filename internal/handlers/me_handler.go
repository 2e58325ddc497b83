package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type sessionClinic interface {
	ClinicForSession(ctx context.Context, sess *session.Session) (*models.Clinic, error)
}

type MeHandler struct {
	users   userStore
	clinics sessionClinic
	log     *zap.Logger
}

func NewMeHandler(users userStore, clinics sessionClinic, log *zap.Logger) *MeHandler {
	return &MeHandler{users: users, clinics: clinics, log: log}
}

// GetMe returns the session user and, for clinic accounts, their clinic.
func (h *MeHandler) GetMe(c *gin.Context) {
	sess := session.From(c)
	if !sess.Authenticated() {
		httperr.Respond(c, h.log, httperr.ErrUnauthenticated())
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), sess.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Respond(c, h.log, httperr.ErrUnauthenticated())
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	var clinic *models.Clinic
	if user.Role == models.RoleClinic {
		clinic, err = h.clinics.ClinicForSession(c.Request.Context(), sess)
		if err != nil && !httperr.IsBusiness(err, "clinic_not_found") {
			httperr.Respond(c, h.log, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"clinic":  clinic,
	})
}

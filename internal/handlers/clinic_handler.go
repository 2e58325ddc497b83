package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/timezone"
)

type clinicOwnership interface {
	AuthorizeClinicOwnership(ctx context.Context, sess *session.Session, clinicID uuid.UUID) (*models.Clinic, error)
}

type clinicStore interface {
	UpdateClinic(ctx context.Context, clinic *models.Clinic) error
}

type ClinicHandler struct {
	guard clinicOwnership
	store clinicStore
	audit auditor
	log   *zap.Logger
}

func NewClinicHandler(guard clinicOwnership, store clinicStore, aud auditor, log *zap.Logger) *ClinicHandler {
	return &ClinicHandler{guard: guard, store: store, audit: aud, log: log}
}

// UpdateClinicRequest is a partial update; absent fields are kept.
type UpdateClinicRequest struct {
	Name     *string `json:"name" binding:"omitempty,notblank,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
}

func (h *ClinicHandler) Update(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}

	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	clinic, err := h.guard.AuthorizeClinicOwnership(c.Request.Context(), session.From(c), clinicID)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if req.Timezone != nil && !timezone.IsValid(*req.Timezone) {
		httperr.Respond(c, h.log, httperr.ErrValidation("invalid_timezone"))
		return
	}

	if req.Name != nil {
		clinic.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Timezone != nil {
		clinic.Timezone = *req.Timezone
	}
	clinic.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateClinic(c.Request.Context(), clinic); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, clinic.ID, "clinic_updated", "clinic", clinic.ID, req)
	httpresp.OK(c, "clinic", clinic)
}

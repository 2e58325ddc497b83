package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type doctorLister interface {
	List(ctx context.Context, clinicID uuid.UUID) ([]models.Doctor, error)
}

type availabilityReader interface {
	Execute(ctx context.Context, doctorID uuid.UUID, date string) ([]appt.TimeSlot, error)
}

type planLister interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

// PublicHandler serves the reads a tutor needs before booking; none of
// them require a session.
type PublicHandler struct {
	doctors      doctorLister
	availability availabilityReader
	plans        planLister
	log          *zap.Logger
}

func NewPublicHandler(
	doctors doctorLister,
	availability availabilityReader,
	plans planLister,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		doctors:      doctors,
		availability: availability,
		plans:        plans,
		log:          log,
	}
}

// ======================================================
// DOCTORS
// ======================================================

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}

	doctors, err := h.doctors.List(c.Request.Context(), clinicID)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, "doctors", doctors)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	doctorID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.Respond(c, h.log, httperr.ErrValidation("invalid_date"))
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"date":    date,
		"slots":   slots,
	})
}

// ======================================================
// PLANS
// ======================================================

func (h *PublicHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, "plans", plans)
}

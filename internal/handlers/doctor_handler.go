package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/doctor"
)

type doctorService interface {
	Create(ctx context.Context, sess *session.Session, clinicID uuid.UUID, in doctor.Input) (*models.Doctor, error)
	Update(ctx context.Context, sess *session.Session, doctorID uuid.UUID, in doctor.Input) (*models.Doctor, error)
	Delete(ctx context.Context, sess *session.Session, doctorID uuid.UUID) error
}

type DoctorHandler struct {
	svc doctorService
	log *zap.Logger
}

func NewDoctorHandler(svc doctorService, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{svc: svc, log: log}
}

// DoctorRequest is used for create and full update. Week days use
// Sunday=0; a from day after the to day wraps over the weekend.
type DoctorRequest struct {
	Name                    string `json:"name" binding:"required,notblank,max=100"`
	CRMV                    string `json:"crmv" binding:"max=30"`
	Specialty               string `json:"specialty" binding:"max=100"`
	AppointmentPriceInCents *int64 `json:"appointment_price_in_cents" binding:"required,min=0"`
	AvailableFromWeekDay    *int   `json:"available_from_week_day" binding:"required,min=0,max=6"`
	AvailableToWeekDay      *int   `json:"available_to_week_day" binding:"required,min=0,max=6"`
	AvailableFromTime       string `json:"available_from_time" binding:"required,timeofday"`
	AvailableToTime         string `json:"available_to_time" binding:"required,timeofday"`
}

func (r DoctorRequest) input() doctor.Input {
	return doctor.Input{
		Name:                    r.Name,
		CRMV:                    r.CRMV,
		Specialty:               r.Specialty,
		AppointmentPriceInCents: *r.AppointmentPriceInCents,
		AvailableFromWeekDay:    *r.AvailableFromWeekDay,
		AvailableToWeekDay:      *r.AvailableToWeekDay,
		AvailableFromTime:       r.AvailableFromTime,
		AvailableToTime:         r.AvailableToTime,
	}
}

func (h *DoctorHandler) Create(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}

	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	d, err := h.svc.Create(c.Request.Context(), session.From(c), clinicID, req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, "doctor", d)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	doctorID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}

	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	d, err := h.svc.Update(c.Request.Context(), session.From(c), doctorID, req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, "doctor", d)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	doctorID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), session.From(c), doctorID); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Done(c)
}

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/dto"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/metrics"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/appointment"
)

// ======================================================
// USE CASES
// ======================================================

type appointmentCreator interface {
	Execute(ctx context.Context, in appointment.CreateAppointmentInput) (*models.Appointment, error)
}

type appointmentCanceler interface {
	Execute(ctx context.Context, appointmentID, clinicID uuid.UUID, sess *session.Session) error
}

type appointmentStatusUpdater interface {
	Execute(ctx context.Context, appointmentID uuid.UUID, status string, sess *session.Session) error
}

type agendaByDate interface {
	Execute(ctx context.Context, sess *session.Session, clinicID uuid.UUID, date string) ([]dto.AppointmentListDTO, error)
}

type agendaByMonth interface {
	Execute(ctx context.Context, sess *session.Session, clinicID uuid.UUID, year, month int) ([]dto.AppointmentListDTO, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       appointmentCreator
	cancel       appointmentCanceler
	updateStatus appointmentStatusUpdater
	byDate       agendaByDate
	byMonth      agendaByMonth
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewAppointmentHandler(
	create appointmentCreator,
	cancel appointmentCanceler,
	updateStatus appointmentStatusUpdater,
	byDate agendaByDate,
	byMonth agendaByMonth,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		cancel:       cancel,
		updateStatus: updateStatus,
		byDate:       byDate,
		byMonth:      byMonth,
		metrics:      m,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PetCode         string `json:"pet_code" binding:"required,notblank,max=12"`
	DoctorID        string `json:"doctor_id" binding:"required,uuid"`
	AppointmentDate string `json:"appointment_date" binding:"required,isodate"`
	AppointmentTime string `json:"appointment_time" binding:"required,timeofday"`
	PriceInCents    *int64 `json:"price_in_cents" binding:"required,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AGENDADO CONCLUIDO"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrValidation("invalid_id"))
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		PetCode:      req.PetCode,
		DoctorID:     doctorID,
		Date:         req.AppointmentDate,
		Time:         req.AppointmentTime,
		PriceInCents: *req.PriceInCents,
		Session:      session.From(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.metrics.AppointmentsCreated.Inc()
	httpresp.Created(c, "appointment", ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}

	if err := h.cancel.Execute(c.Request.Context(), appointmentID, clinicID, session.From(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.metrics.AppointmentsCanceled.Inc()
	httpresp.Done(c)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	appointmentID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := h.updateStatus.Execute(c.Request.Context(), appointmentID, req.Status, session.From(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.metrics.StatusUpdates.WithLabelValues(req.Status).Inc()
	httpresp.Done(c)
}

// ======================================================
// AGENDA
// ======================================================

// ListByClinic serves ?date=YYYY-MM-DD or ?year=&month=.
func (h *AppointmentHandler) ListByClinic(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}

	var (
		list []dto.AppointmentListDTO
		err  error
	)

	if date := c.Query("date"); date != "" {
		list, err = h.byDate.Execute(c.Request.Context(), session.From(c), clinicID, date)
	} else {
		year, hasYear, okYear := intQuery(c, "year")
		month, hasMonth, okMonth := intQuery(c, "month")
		if !hasYear || !hasMonth || !okYear || !okMonth {
			httperr.Respond(c, h.log, httperr.ErrValidation("invalid_date"))
			return
		}
		list, err = h.byMonth.Execute(c.Request.Context(), session.From(c), clinicID, year, month)
	}
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, "appointments", list)
}

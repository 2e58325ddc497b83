package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/repository"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type auditLogStore interface {
	ListAuditLogs(ctx context.Context, clinicID uuid.UUID, f repository.AuditLogFilter) ([]models.AuditLog, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	guard clinicOwnership
	store auditLogStore
	log   *zap.Logger
}

func NewAuditLogsHandler(guard clinicOwnership, store auditLogStore, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{guard: guard, store: store, log: log}
}

// List serves the latest entries of a clinic, optionally narrowed by
// action, entity and a from/to date range (YYYY-MM-DD, inclusive).
func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID, ok := uuidParam(c, h.log, "clinicId")
	if !ok {
		return
	}

	if _, err := h.guard.AuthorizeClinicOwnership(c.Request.Context(), session.From(c), clinicID); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	f := repository.AuditLogFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  defaultAuditLimit,
	}

	if limit, present, valid := intQuery(c, "limit"); present && valid && limit > 0 {
		f.Limit = min(limit, maxAuditLimit)
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, err := h.store.ListAuditLogs(c.Request.Context(), clinicID, f)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, "logs", logs)
}

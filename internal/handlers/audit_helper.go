package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

type auditor interface {
	Dispatch(ev audit.Event)
}

// writeAudit queues an event attributed to the request's session user.
func writeAudit(
	c *gin.Context,
	aud auditor,
	clinicID uuid.UUID,
	action string,
	entity string,
	entityID uuid.UUID,
	meta any,
) {
	aud.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   session.From(c).UserID(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
)

// uuidParam parses a path parameter. On failure it answers 400 invalid_id
// and returns false.
func uuidParam(c *gin.Context, log *zap.Logger, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.Respond(c, log, httperr.ErrValidation("invalid_id"))
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads an integer query parameter; ok is false when present but
// not a number.
func intQuery(c *gin.Context, name string) (v int, present bool, ok bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return 0, false, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

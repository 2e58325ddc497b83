package session

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

const contextKey = "session"

type User struct {
	ID    uuid.UUID
	Email string
	Role  models.Role
}

// Session is the authenticated principal of one request. Use cases receive
// it as an explicit argument; a nil *Session means "not authenticated".
type Session struct {
	User *User
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && s.User.ID != uuid.Nil
}

func (s *Session) UserID() uuid.UUID {
	if !s.Authenticated() {
		return uuid.Nil
	}
	return s.User.ID
}

func Set(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// From returns the session resolved by the auth middleware, or nil.
func From(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

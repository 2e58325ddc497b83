package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

// AuthMiddleware resolves the bearer token into a session. Without an
// Authorization header the request continues with no session and the
// use cases answer Unauthenticated; a bad token is rejected here.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			c.Abort()
			return
		}

		sess, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
			c.Abort()
			return
		}

		session.Set(c, sess)
		c.Next()
	}
}

// RequireSession stops anonymous requests on routes that have nothing to
// offer without one.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.From(c).Authenticated() {
			httperr.Write(c, http.StatusUnauthorized, "unauthenticated", httperr.MessageFor("unauthenticated"))
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/finprep/certquiz-backend/internal/response"
	"github.com/finprep/certquiz-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CheckActiveToken validates the JWT's JTI against the token registry in
// Redis. A structurally valid token whose JTI is gone has been revoked by
// logout and must be rejected. Runs after RequireJWT.
func CheckActiveToken(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.CheckTokenRegistered(c.Request.Context(), claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
			return
		}

		c.Next()
	}
}

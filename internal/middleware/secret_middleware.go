package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/farellandr/givingate/internal/helpers"
	"github.com/gin-gonic/gin"
)

// BearerSecretMiddleware guards operational endpoints (sweep trigger, admin
// insights) with a shared secret. Rejected before any database access.
func BearerSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, found := strings.CutPrefix(header, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Unauthorized.")
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

// StaffOnly guards staff routes with the shared API key and attaches a
// staff Actor for the handlers. Identity is explicit per request;
// nothing downstream reads ambient auth state.
func StaffOnly(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-API-Key")
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "staff API key required")
			c.Abort()
			return
		}
		name := strings.TrimSpace(c.GetHeader("X-Staff-Name"))
		if name == "" {
			name = "staff"
		}
		c.Set("actor", services.Actor{Name: name, Staff: true})
		c.Next()
	}
}

package middlewares

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/utils"
)

// InternalAuthMiddleware guards service-to-service routes with a shared key
// carried in X-Internal-Key.
func InternalAuthMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			utils.RespondError(c, http.StatusServiceUnavailable, errors.New("internal API disabled"))
			c.Abort()
			return
		}
		got := c.GetHeader("X-Internal-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid internal key"))
			c.Abort()
			return
		}
		c.Next()
	}
}

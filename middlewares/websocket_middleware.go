package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/utils"
)

// WebSocketAuthMiddleware authenticates upgrade requests. Browsers cannot
// set headers on websocket handshakes, so the JWT rides the query string.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil || claims == nil || claims.VendorID == 0 {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("vendor_id", claims.VendorID)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

package middleware

import (
	"net/http"

	"senpai_store/pkg/response"
	"senpai_store/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminCookieName is the httpOnly cookie carrying the admin session token.
const AdminCookieName = "admin-token"

// AdminAuthMiddleware guards dashboard and order-management routes. The token
// is issued by the admin login endpoint and carried in an httpOnly cookie.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Set("adminEmail", claims.Email)

		c.Next()
	}
}

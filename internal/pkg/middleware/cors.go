package middleware

import (
	"strings"
	"time"

	"senpai_store/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront origin to call the API with cookies.
// The admin dashboard shares the same origin as the public base URL.
func CORSMiddleware() gin.HandlerFunc {
	origin := strings.TrimRight(config.GlobalConfig.App.BaseURL, "/")

	return cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cookie"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

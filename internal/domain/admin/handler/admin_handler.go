package handler

import (
	"errors"
	"net/http"

	"senpai_store/internal/domain/admin/service"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/pkg/response"
	"senpai_store/pkg/utils"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 60 * 60 * 24 * 7 // 7 days, matches token expiry

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator and sets the httpOnly session cookie.
func (h *AdminHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Email and password are required")
		return
	}

	admin, token, _, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid credentials")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Internal server error")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, token, cookieMaxAge, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
		},
	})
}

// Logout clears the session cookie.
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify validates the session cookie and confirms the admin is active.
func (h *AdminHandler) Verify(c *gin.Context) {
	token, err := c.Cookie(middleware.AdminCookieName)
	if err != nil || token == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "No token found")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid session token")
		return
	}

	admin, err := h.service.Verify(claims.AdminID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin": gin.H{
			"id":       admin.ID,
			"email":    admin.Email,
			"name":     admin.Name,
			"isActive": admin.IsActive,
		},
	})
}

// DashboardStats serves the admin dashboard aggregates.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

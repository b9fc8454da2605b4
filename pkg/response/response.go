package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope returned by every endpoint. The storefront client
// and the admin dashboard both key off the Success flag.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details string      `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 with the success flag set.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessMessage writes a 200 with a human-readable message and no payload.
func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// Error writes an error response with the given HTTP status and taxonomy code.
func Error(c *gin.Context, httpCode int, errCode string, msg string) {
	c.JSON(httpCode, Response{
		Success: false,
		Error:   msg,
		Code:    errCode,
	})
}

// ErrorWithDetails carries a machine-usable details string alongside the
// generic message, used for upstream gateway failures.
func ErrorWithDetails(c *gin.Context, httpCode int, errCode string, msg, details string) {
	c.JSON(httpCode, Response{
		Success: false,
		Error:   msg,
		Code:    errCode,
		Details: details,
	})
}

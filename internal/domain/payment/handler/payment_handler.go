package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"senpai_store/internal/domain/payment/gateway"
	"senpai_store/internal/domain/payment/service"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/pkg/logger"
	"senpai_store/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Webhook signature headers sent by Cashfree.
const (
	headerWebhookTimestamp = "x-webhook-timestamp"
	headerWebhookSignature = "x-webhook-signature"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreateSessionInput struct {
	OrderID string `json:"orderId" binding:"required"`
}

// CreateSession mints (or reuses) a gateway payment session for an order.
func (h *PaymentHandler) CreateSession(c *gin.Context) {
	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	result, err := h.service.CreateSession(c.Request.Context(), input.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
		case errors.Is(err, service.ErrMissingEmail),
			errors.Is(err, service.ErrInvalidAmount):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		default:
			// Full gateway detail goes to the log only.
			var apiErr *gateway.APIError
			if errors.As(err, &apiErr) {
				logger.Log.Error("Cashfree session creation failed",
					zap.String("order_id", input.OrderID),
					zap.Int("status", apiErr.StatusCode),
					zap.String("body", apiErr.Body),
				)
			} else {
				logger.Log.Error("Cashfree session creation failed",
					zap.String("order_id", input.OrderID),
					zap.Error(err),
				)
			}
			response.ErrorWithDetails(c, http.StatusInternalServerError, response.CodeUpstreamFailure,
				"Failed to create payment session", "gateway request failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"payment_session_id": result.PaymentSessionID,
		"order_id":           result.OrderID,
		"cf_order_id":        result.CFOrderID,
	})
}

// Webhook receives asynchronous payment notifications from Cashfree. The
// body must be read raw before any parsing: the signature covers the exact
// bytes on the wire.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	requestID := middleware.RequestID(c)

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Failed to read request body")
		return
	}

	timestamp := c.GetHeader(headerWebhookTimestamp)
	signature := c.GetHeader(headerWebhookSignature)

	ack, err := h.service.HandleWebhook(c.Request.Context(), timestamp, signature, rawBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSignature),
			errors.Is(err, service.ErrInvalidSignature):
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid signature")
		case errors.Is(err, service.ErrMalformedPayload):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Malformed webhook payload")
		case errors.Is(err, service.ErrVerificationFailed):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Payment verification failed")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
		default:
			// A transient failure here NACKs the delivery; the gateway's
			// retry schedule is the recovery path. Only a generic message
			// and the request id leave the process.
			logger.Log.Error("Webhook processing failed",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Webhook processing failed",
				"code":      response.CodeInternalError,
				"requestId": requestID,
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": ack.Message,
		"orderId": ack.OrderID,
	})
}

// WebhookHealth reports reconciliation health over the last 24 hours.
func (h *PaymentHandler) WebhookHealth(c *gin.Context) {
	health, err := h.service.GetWebhookHealth()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to check webhook health")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"webhookHealth": health,
	})
}

// WebhookTest echoes a delivery back without touching any order; used to
// confirm the endpoint is reachable from the gateway dashboard.
func (h *PaymentHandler) WebhookTest(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidationError,
			"Failed to process test webhook", err.Error())
		return
	}

	received, _ := json.Marshal(body)
	logger.Log.Info("Test webhook call received", zap.ByteString("body", received))

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Test webhook received successfully",
		"received":  body,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

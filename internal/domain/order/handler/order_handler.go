package handler

import (
	"errors"
	"net/http"

	"senpai_store/internal/domain/order/model"
	"senpai_store/internal/domain/order/service"
	"senpai_store/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder handles checkout. Creates/reuses the user by email, snapshots
// the address and item prices, and applies the payment-method state rules.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	order, err := h.service.CreateOrder(&input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentMethod),
			errors.Is(err, service.ErrTotalMismatch),
			errors.Is(err, service.ErrNoItems):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		default:
			response.ErrorWithDetails(c, http.StatusInternalServerError, response.CodeInternalError,
				"Failed to create order", err.Error())
		}
		return
	}

	message := "Order created successfully"
	if order.PaymentMethod == model.PaymentMethodCOD {
		message = "COD order created successfully. Payment will be collected upon delivery."
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": message,
	})
}

// GetOrders lists all orders for the dashboard.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.service.GetOrders()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// GetOrder fetches one order; the payment success page polls this.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.service.GetOrder(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch order details")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus sets the fulfillment status (admin).
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(id, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Invalid status")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to update order status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// UpdatePaymentStatus is the COD-only manual payment transition (admin).
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id := c.Param("id")

	var input UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	order, message, err := h.service.UpdatePaymentStatus(id, input.PaymentStatus)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, "Invalid payment status")
		case errors.Is(err, service.ErrNotCOD):
			response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to update payment status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": message,
	})
}

package model

import (
	catalogModel "senpai_store/internal/domain/catalog/model"
	userModel "senpai_store/internal/domain/user/model"
	baseModel "senpai_store/pkg/model"
)

// Order is the central entity. Its ID doubles as the merchant order
// reference sent to Cashfree, so the gateway's webhooks and payment queries
// correlate back to this row directly.
type Order struct {
	baseModel.BaseModel
	UserID    string `gorm:"type:uuid;index" json:"userId"`
	AddressID string `gorm:"type:uuid" json:"addressId"`

	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	// Frozen at creation: total = subtotal + shipping + tax - discount.
	Total float64 `json:"total"`

	// Status tracks fulfillment; PaymentStatus tracks money. The two move
	// independently (a CONFIRMED COD order is still payment PENDING).
	PaymentMethod string `gorm:"not null" json:"paymentMethod"`
	Status        string `gorm:"default:'PENDING';index" json:"status"`
	PaymentStatus string `gorm:"default:'PENDING'" json:"paymentStatus"`

	// Gateway correlation, set by the session creation flow.
	CashfreeOrderID  string `json:"cashfreeOrderId,omitempty"`
	PaymentSessionID string `json:"paymentSessionId,omitempty"`

	User       userModel.User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Address    userModel.Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	OrderItems []OrderItem       `gorm:"foreignKey:OrderID" json:"orderItems,omitempty"`
}

// OrderItem carries the price paid at order time, a snapshot rather than a
// live product lookup.
type OrderItem struct {
	baseModel.BaseModel
	OrderID   string  `gorm:"type:uuid;index" json:"orderId"`
	ProductID string  `gorm:"index" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Size      string  `json:"size"`
	Price     float64 `gorm:"not null" json:"price"`

	Product catalogModel.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Fulfillment states. Admins may set any state to any other; there is no
// enforced forward-only machine.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Payment states.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Payment methods.
const (
	PaymentMethodOnline = "ONLINE"
	PaymentMethodCOD    = "COD"
)

// ValidOrderStatus reports whether s is a known fulfillment state.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment state.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

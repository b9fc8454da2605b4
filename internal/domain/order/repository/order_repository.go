package repository

import (
	"time"

	"senpai_store/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderRepository persists orders and drives their state transitions.
// Updates are single-row last-write-wins; concurrent webhook deliveries for
// the same order are tolerated, not serialized.
type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetList() ([]model.Order, error)
	GetRecentOnline(since time.Time, limit int) ([]model.Order, error)
	UpdateStatus(id string, status string) error
	UpdatePaymentState(id string, paymentStatus string, status string) error
	SetGatewaySession(id string, cashfreeOrderID, paymentSessionID string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("User").
		Preload("Address").
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetList() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("User").
		Preload("Address").
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetRecentOnline returns recent online orders for webhook health checks.
// No preloads; only the payment columns matter here.
func (r *orderRepository) GetRecentOnline(since time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Where("payment_method = ? AND created_at >= ?", model.PaymentMethodOnline, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePaymentState sets the payment status and, when status is non-empty,
// the fulfillment status in the same write.
func (r *orderRepository) UpdatePaymentState(id string, paymentStatus string, status string) error {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
	}
	if status != "" {
		updates["status"] = status
	}
	return r.db.Model(&model.Order{}).Where("id = ?", id).Updates(updates).Error
}

// SetGatewaySession stores the gateway correlation ids. Re-running simply
// overwrites the two fields.
func (r *orderRepository) SetGatewaySession(id string, cashfreeOrderID, paymentSessionID string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cashfree_order_id":  cashfreeOrderID,
		"payment_session_id": paymentSessionID,
	}).Error
}

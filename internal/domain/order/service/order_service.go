package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"senpai_store/internal/domain/order/model"
	orderRepo "senpai_store/internal/domain/order/repository"
	userModel "senpai_store/internal/domain/user/model"
	userRepo "senpai_store/internal/domain/user/repository"
	"senpai_store/internal/pkg/mailer"
	"senpai_store/internal/pkg/worker"
	"senpai_store/pkg/logger"
	"senpai_store/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotCOD guards the manual payment-status path: online payments are
	// mutated only by the webhook flow.
	ErrNotCOD = errors.New("payment status can only be manually updated for COD orders; online payments are managed automatically via webhooks")

	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method, must be online or cod")
	ErrTotalMismatch        = errors.New("order total does not equal subtotal + shipping + tax - discount")
	ErrNoItems              = errors.New("order must contain at least one item")
)

// CreateOrderItemInput is one checkout line item. Price is the storefront's
// price at checkout time and is frozen onto the order.
type CreateOrderItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Size      string  `json:"size"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Address   string `json:"address" binding:"required"`
	Apartment string `json:"apartment"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`

	Items    []CreateOrderItemInput `json:"items" binding:"required"`
	Subtotal float64                `json:"subtotal" binding:"required,gt=0"`
	Shipping float64                `json:"shipping"`
	Tax      float64                `json:"tax"`
	Discount float64                `json:"discount"`
	Total    float64                `json:"total" binding:"required,gt=0"`

	PaymentMethod string `json:"paymentMethod"`
}

// OrderService owns order creation and the administrative transitions.
type OrderService interface {
	CreateOrder(input *CreateOrderInput) (*model.Order, error)
	GetOrder(id string) (*model.Order, error)
	GetOrders() ([]model.Order, error)
	UpdateStatus(id string, status string) (*model.Order, error)
	UpdatePaymentStatus(id string, paymentStatus string) (*model.Order, string, error)
}

type orderService struct {
	repo  orderRepo.OrderRepository
	users userRepo.UserRepository
}

func NewOrderService(repo orderRepo.OrderRepository, users userRepo.UserRepository) OrderService {
	return &orderService{repo: repo, users: users}
}

// CreateOrder creates/reuses the user by email, snapshots the address, and
// creates the order with its line items. COD orders confirm immediately
// (cash collected at delivery); online orders stay PENDING until the
// gateway webhook confirms payment.
func (s *orderService) CreateOrder(input *CreateOrderInput) (*model.Order, error) {
	method := strings.ToLower(input.PaymentMethod)
	if method == "" {
		method = "online"
	}
	if method != "online" && method != "cod" {
		return nil, ErrInvalidPaymentMethod
	}
	paymentMethod := model.PaymentMethodOnline
	if method == "cod" {
		paymentMethod = model.PaymentMethodCOD
	}

	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	// The total is validated once here and never recomputed later.
	expected := input.Subtotal + input.Shipping + input.Tax - input.Discount
	if math.Abs(expected-input.Total) > 0.01 {
		return nil, ErrTotalMismatch
	}

	user, err := s.users.GetByEmail(input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &userModel.User{
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Phone:     input.Phone,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	}

	country := input.Country
	if country == "" {
		country = "India"
	}
	address := &userModel.Address{
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
		Apartment: input.Apartment,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Country:   country,
		Phone:     input.Phone,
	}
	if err := s.users.CreateAddress(address); err != nil {
		return nil, err
	}

	status := model.OrderStatusPending
	if paymentMethod == model.PaymentMethodCOD {
		status = model.OrderStatusConfirmed
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Price:     it.Price,
		})
	}

	order := &model.Order{
		UserID:        user.ID,
		AddressID:     address.ID,
		Subtotal:      input.Subtotal,
		Shipping:      input.Shipping,
		Tax:           input.Tax,
		Discount:      input.Discount,
		Total:         input.Total,
		PaymentMethod: paymentMethod,
		Status:        status,
		PaymentStatus: model.PaymentStatusPending,
		OrderItems:    items,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordOrderCreated(paymentMethod)

	// COD orders are confirmed at creation, so the confirmation mail goes
	// out now. Online orders are mailed once the webhook marks them paid.
	if paymentMethod == model.PaymentMethodCOD && worker.GlobalPool != nil {
		worker.GlobalPool.AddTask(worker.EmailTask{
			To:      user.Email,
			Subject: "Order Confirmation",
			Body:    mailer.OrderConfirmationBody(order.ID, order.Total, paymentMethod),
			OrderID: order.ID,
		})
	}

	logger.Log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", paymentMethod),
		zap.Float64("total", order.Total),
	)

	order.User = *user
	order.Address = *address
	return order, nil
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	return s.repo.GetByID(id)
}

func (s *orderService) GetOrders() ([]model.Order, error) {
	return s.repo.GetList()
}

// UpdateStatus sets the fulfillment status. Any known status may follow any
// other; operations staff fix mis-set states through the same endpoint.
func (s *orderService) UpdateStatus(id string, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// UpdatePaymentStatus is the COD-only manual path. Marking a COD order PAID
// auto-advances its fulfillment status to CONFIRMED. The returned string is
// a human-readable summary for the dashboard.
func (s *orderService) UpdatePaymentStatus(id string, paymentStatus string) (*model.Order, string, error) {
	if !model.ValidPaymentStatus(paymentStatus) {
		return nil, "", ErrInvalidPaymentStatus
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}

	if existing.PaymentMethod != model.PaymentMethodCOD {
		return nil, "", ErrNotCOD
	}

	newStatus := ""
	if paymentStatus == model.PaymentStatusPaid && existing.PaymentStatus != model.PaymentStatusPaid {
		newStatus = model.OrderStatusConfirmed
	}

	if err := s.repo.UpdatePaymentState(id, paymentStatus, newStatus); err != nil {
		return nil, "", err
	}

	message := fmt.Sprintf("Payment status updated to %s", paymentStatus)
	if newStatus != "" {
		message = fmt.Sprintf("Payment status updated to %s and order confirmed", paymentStatus)
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	return updated, message, nil
}

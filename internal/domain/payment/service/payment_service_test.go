package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	orderModel "senpai_store/internal/domain/order/model"
	"senpai_store/internal/domain/payment/gateway"
	"senpai_store/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *mockOrderRepo) GetList() ([]orderModel.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orderModel.Order), args.Error(1)
}

func (m *mockOrderRepo) GetRecentOnline(since time.Time, limit int) ([]orderModel.Order, error) {
	args := m.Called(since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orderModel.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *mockOrderRepo) UpdatePaymentState(id string, paymentStatus string, status string) error {
	args := m.Called(id, paymentStatus, status)
	return args.Error(0)
}

func (m *mockOrderRepo) SetGatewaySession(id string, cashfreeOrderID, paymentSessionID string) error {
	args := m.Called(id, cashfreeOrderID, paymentSessionID)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, req *gateway.CreateOrderRequest) (*gateway.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CreateOrderResponse), args.Error(1)
}

func (m *mockGateway) GetOrderPayments(ctx context.Context, orderID string) ([]gateway.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Payment), args.Error(1)
}

const testSecret = "test-webhook-secret"

func signedWebhook(t *testing.T, body string) (string, string, []byte) {
	t.Helper()
	ts := "1712345678"
	raw := []byte(body)
	return ts, gateway.ComputeSignature(testSecret, ts, raw), raw
}

func webhookBody(eventType, orderID string) string {
	return fmt.Sprintf(`{"type":%q,"data":{"order":{"order_id":%q}}}`, eventType, orderID)
}

func pendingOnlineOrder(id string) *orderModel.Order {
	o := &orderModel.Order{
		UserID:        "user-1",
		Total:         899,
		PaymentMethod: orderModel.PaymentMethodOnline,
		Status:        orderModel.OrderStatusPending,
		PaymentStatus: orderModel.PaymentStatusPending,
	}
	o.ID = id
	o.User.Email = "buyer@example.com"
	return o
}

func TestHandleWebhook_SignatureChecks(t *testing.T) {
	repo := new(mockOrderRepo)
	gw := new(mockGateway)
	svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

	body := []byte(webhookBody("PAYMENT_SUCCESS_WEBHOOK", "order-1"))

	t.Run("missing timestamp", func(t *testing.T) {
		_, err := svc.HandleWebhook(context.Background(), "", "some-sig", body)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := svc.HandleWebhook(context.Background(), "1712345678", "", body)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		ts, sig, raw := signedWebhook(t, string(body))
		raw = append(raw, ' ')
		_, err := svc.HandleWebhook(context.Background(), ts, sig, raw)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		ts := "1712345678"
		sig := gateway.ComputeSignature("other-secret", ts, body)
		_, err := svc.HandleWebhook(context.Background(), ts, sig, body)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	repo.AssertNotCalled(t, "GetByID")
}

func TestHandleWebhook_MalformedPayload(t *testing.T) {
	repo := new(mockOrderRepo)
	gw := new(mockGateway)
	svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

	ts, sig, raw := signedWebhook(t, `{"type": "PAYMENT_SUCCESS_WEBHOOK"`)
	_, err := svc.HandleWebhook(context.Background(), ts, sig, raw)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestHandleWebhook_PaymentSuccess(t *testing.T) {
	t.Run("applies verified success", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetByID", "order-1").Return(pendingOnlineOrder("order-1"), nil)
		gw.On("GetOrderPayments", mock.Anything, "order-1").Return([]gateway.Payment{
			{PaymentStatus: gateway.PaymentStatusSuccess, PaymentAmount: 899},
		}, nil)
		repo.On("UpdatePaymentState", "order-1",
			orderModel.PaymentStatusPaid, orderModel.OrderStatusConfirmed).Return(nil)

		ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_SUCCESS_WEBHOOK", "order-1"))
		ack, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

		assert.NoError(t, err)
		assert.Equal(t, "Payment confirmed and order updated", ack.Message)
		assert.Equal(t, "order-1", ack.OrderID)
		repo.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("redelivery of applied success is a no-op", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		paid := pendingOnlineOrder("order-1")
		paid.PaymentStatus = orderModel.PaymentStatusPaid
		paid.Status = orderModel.OrderStatusConfirmed
		repo.On("GetByID", "order-1").Return(paid, nil)

		ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_SUCCESS_WEBHOOK", "order-1"))
		ack, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

		assert.NoError(t, err)
		assert.Equal(t, "Payment already confirmed", ack.Message)
		gw.AssertNotCalled(t, "GetOrderPayments")
		repo.AssertNotCalled(t, "UpdatePaymentState")
	})

	t.Run("gateway disagrees with webhook claim", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetByID", "order-1").Return(pendingOnlineOrder("order-1"), nil)
		gw.On("GetOrderPayments", mock.Anything, "order-1").Return([]gateway.Payment{
			{PaymentStatus: "FAILED"},
		}, nil)

		ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_SUCCESS_WEBHOOK", "order-1"))
		_, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

		assert.ErrorIs(t, err, ErrVerificationFailed)
		repo.AssertNotCalled(t, "UpdatePaymentState")
	})

	t.Run("no payments on record", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetByID", "order-1").Return(pendingOnlineOrder("order-1"), nil)
		gw.On("GetOrderPayments", mock.Anything, "order-1").Return([]gateway.Payment{}, nil)

		ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_SUCCESS_WEBHOOK", "order-1"))
		_, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

		assert.ErrorIs(t, err, ErrVerificationFailed)
	})

	t.Run("unknown order passes the not-found through", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_SUCCESS_WEBHOOK", "ghost"))
		_, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestHandleWebhook_PaymentFailed(t *testing.T) {
	repo := new(mockOrderRepo)
	gw := new(mockGateway)
	svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

	repo.On("GetByID", "order-2").Return(pendingOnlineOrder("order-2"), nil)
	repo.On("UpdatePaymentState", "order-2",
		orderModel.PaymentStatusFailed, orderModel.OrderStatusCancelled).Return(nil)

	ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_FAILED_WEBHOOK", "order-2"))
	ack, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

	assert.NoError(t, err)
	assert.Equal(t, "Payment failure processed and order updated", ack.Message)
	// Failure never consults the gateway; the order just moves to its
	// cancelled state and a later verified success may still overwrite it.
	gw.AssertNotCalled(t, "GetOrderPayments")
	repo.AssertExpectations(t)
}

func TestHandleWebhook_UserDropped(t *testing.T) {
	repo := new(mockOrderRepo)
	gw := new(mockGateway)
	svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

	ts, sig, raw := signedWebhook(t, webhookBody("PAYMENT_USER_DROPPED_WEBHOOK", "order-3"))
	ack, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

	assert.NoError(t, err)
	assert.Equal(t, "Payment drop processed", ack.Message)
	repo.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "UpdatePaymentState")
}

func TestHandleWebhook_UnknownType(t *testing.T) {
	repo := new(mockOrderRepo)
	gw := new(mockGateway)
	svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

	ts, sig, raw := signedWebhook(t, webhookBody("REFUND_STATUS_WEBHOOK", "order-4"))
	ack, err := svc.HandleWebhook(context.Background(), ts, sig, raw)

	assert.NoError(t, err)
	assert.Equal(t, "Webhook received but not processed", ack.Message)
	assert.Equal(t, "REFUND_STATUS_WEBHOOK", ack.EventType)
	repo.AssertNotCalled(t, "GetByID")
}

func TestCreateSession(t *testing.T) {
	t.Run("creates a fresh session", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in/")

		order := pendingOnlineOrder("order-1")
		order.User.Phone = "9876543210"
		order.User.FirstName = "Asha"
		order.User.LastName = "Rao"
		repo.On("GetByID", "order-1").Return(order, nil)

		gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *gateway.CreateOrderRequest) bool {
			return req.OrderID == "order-1" &&
				req.OrderAmount == 899 &&
				req.OrderCurrency == "INR" &&
				req.CustomerDetails.CustomerPhone == "9876543210" &&
				req.CustomerDetails.CustomerName == "Asha Rao" &&
				req.OrderMeta.ReturnURL == "https://senpaistyles.in/payment/success?order_id=order-1" &&
				req.OrderMeta.NotifyURL == "https://senpaistyles.in/cashfree/webhook"
		})).Return(&gateway.CreateOrderResponse{
			CFOrderID:        "cf-100",
			OrderID:          "order-1",
			PaymentSessionID: "session_abc",
		}, nil)
		repo.On("SetGatewaySession", "order-1", "cf-100", "session_abc").Return(nil)

		res, err := svc.CreateSession(context.Background(), "order-1")

		assert.NoError(t, err)
		assert.Equal(t, "session_abc", res.PaymentSessionID)
		assert.False(t, res.Reused)
		repo.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("reuses an existing session", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		order := pendingOnlineOrder("order-1")
		order.CashfreeOrderID = "cf-100"
		order.PaymentSessionID = "session_abc"
		repo.On("GetByID", "order-1").Return(order, nil)

		res, err := svc.CreateSession(context.Background(), "order-1")

		assert.NoError(t, err)
		assert.True(t, res.Reused)
		assert.Equal(t, "session_abc", res.PaymentSessionID)
		gw.AssertNotCalled(t, "CreateOrder")
		repo.AssertNotCalled(t, "SetGatewaySession")
	})

	t.Run("rejects order without email", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		order := pendingOnlineOrder("order-1")
		order.User.Email = ""
		repo.On("GetByID", "order-1").Return(order, nil)

		_, err := svc.CreateSession(context.Background(), "order-1")
		assert.ErrorIs(t, err, ErrMissingEmail)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		order := pendingOnlineOrder("order-1")
		order.Total = 0
		repo.On("GetByID", "order-1").Return(order, nil)

		_, err := svc.CreateSession(context.Background(), "order-1")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("gateway failure leaves the order untouched", func(t *testing.T) {
		repo := new(mockOrderRepo)
		gw := new(mockGateway)
		svc := NewPaymentService(repo, gw, testSecret, "https://senpaistyles.in")

		repo.On("GetByID", "order-1").Return(pendingOnlineOrder("order-1"), nil)
		gw.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream timeout"))

		_, err := svc.CreateSession(context.Background(), "order-1")

		assert.Error(t, err)
		repo.AssertNotCalled(t, "SetGatewaySession")
	})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		phones []string
		want   string
	}{
		{"valid user phone", []string{"9876543210", ""}, "9876543210"},
		{"falls back to address phone", []string{"", "8123456789"}, "8123456789"},
		{"rejects short numbers", []string{"98765", ""}, fallbackPhone},
		{"rejects landline prefix", []string{"1234567890", ""}, fallbackPhone},
		{"no phones at all", []string{"", ""}, fallbackPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.phones...))
		})
	}
}

func TestCustomerName(t *testing.T) {
	assert.Equal(t, "Asha Rao", customerName("Asha", "Rao"))
	assert.Equal(t, "Customer", customerName("", ""))
	assert.Equal(t, "Customer Rao", customerName("", "Rao"))
	assert.Equal(t, "Asha", customerName("Asha", ""))
}

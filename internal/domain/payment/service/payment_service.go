package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	orderModel "senpai_store/internal/domain/order/model"
	orderRepo "senpai_store/internal/domain/order/repository"
	"senpai_store/internal/domain/payment/gateway"
	"senpai_store/internal/pkg/mailer"
	"senpai_store/internal/pkg/worker"
	"senpai_store/pkg/logger"
	"senpai_store/pkg/metrics"

	"go.uber.org/zap"
)

var (
	// ErrMissingSignature rejects unsigned webhook deliveries outright. The
	// gateway always signs; an unsigned request is not the gateway.
	ErrMissingSignature = errors.New("missing webhook signature or timestamp")

	// ErrInvalidSignature rejects deliveries whose HMAC does not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrVerificationFailed means the webhook claimed success but the
	// gateway's own payments query disagreed. The order is left untouched.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrMalformedPayload means the webhook body was not parseable JSON.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	ErrMissingEmail  = errors.New("customer email is required")
	ErrInvalidAmount = errors.New("order amount must be greater than 0")
)

// indianMobile is the customer_phone format the gateway accepts.
var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

const fallbackPhone = "9999999999"

// SessionResult is what the storefront needs to launch the hosted payment UI.
type SessionResult struct {
	PaymentSessionID string
	OrderID          string
	CFOrderID        string
	// Reused is true when the order already had a session and no new gateway
	// session was minted.
	Reused bool
}

// WebhookAck is the acknowledgement body for a processed (or benignly
// ignored) webhook delivery.
type WebhookAck struct {
	Message   string
	OrderID   string
	EventType string
}

// PaymentService orchestrates the Cashfree integration: session creation
// before payment and webhook reconciliation after.
type PaymentService interface {
	CreateSession(ctx context.Context, orderID string) (*SessionResult, error)
	HandleWebhook(ctx context.Context, timestamp, signature string, rawBody []byte) (*WebhookAck, error)
	GetWebhookHealth() (*WebhookHealth, error)
}

type paymentService struct {
	orders        orderRepo.OrderRepository
	gateway       gateway.Gateway
	webhookSecret string
	baseURL       string
}

// NewPaymentService wires the service. baseURL is the deployment's public
// URL used to derive the browser return URL and the webhook notify URL.
func NewPaymentService(orders orderRepo.OrderRepository, gw gateway.Gateway, webhookSecret, baseURL string) PaymentService {
	return &paymentService{
		orders:        orders,
		gateway:       gw,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// CreateSession asks the gateway for a payment session for an existing
// order and persists the gateway correlation ids. If the order already
// carries a session, it is returned as-is rather than minting another
// remote session: the store-side write is idempotent, the gateway call is
// not, so the cheap side absorbs the retry.
func (s *paymentService) CreateSession(ctx context.Context, orderID string) (*SessionResult, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.User.Email == "" {
		return nil, ErrMissingEmail
	}
	if order.Total <= 0 {
		return nil, ErrInvalidAmount
	}

	if order.PaymentSessionID != "" && order.CashfreeOrderID != "" {
		logger.Log.Info("Reusing existing payment session",
			zap.String("order_id", order.ID),
			zap.String("cf_order_id", order.CashfreeOrderID),
		)
		return &SessionResult{
			PaymentSessionID: order.PaymentSessionID,
			OrderID:          order.ID,
			CFOrderID:        order.CashfreeOrderID,
			Reused:           true,
		}, nil
	}

	req := &gateway.CreateOrderRequest{
		OrderID:       order.ID,
		OrderAmount:   order.Total,
		OrderCurrency: "INR",
		CustomerDetails: gateway.CustomerDetails{
			CustomerID:    order.UserID,
			CustomerEmail: order.User.Email,
			CustomerPhone: normalizePhone(order.User.Phone, order.Address.Phone),
			CustomerName:  customerName(order.User.FirstName, order.User.LastName),
		},
		OrderMeta: gateway.OrderMeta{
			ReturnURL: fmt.Sprintf("%s/payment/success?order_id=%s", s.baseURL, order.ID),
			NotifyURL: s.baseURL + "/cashfree/webhook",
		},
	}

	resp, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		metrics.GetGlobalCollector().RecordGatewayCall("create_order", "error")
		// The order is not mutated on gateway failure.
		return nil, err
	}
	metrics.GetGlobalCollector().RecordGatewayCall("create_order", "ok")

	if err := s.orders.SetGatewaySession(order.ID, resp.CFOrderID, resp.PaymentSessionID); err != nil {
		return nil, err
	}

	logger.Log.Info("Payment session created",
		zap.String("order_id", order.ID),
		zap.String("cf_order_id", resp.CFOrderID),
	)

	return &SessionResult{
		PaymentSessionID: resp.PaymentSessionID,
		OrderID:          resp.OrderID,
		CFOrderID:        resp.CFOrderID,
	}, nil
}

// HandleWebhook verifies, parses, and applies one webhook delivery.
// Deliveries may arrive more than once and in any order; applying the same
// terminal event twice is a no-op, and SUCCESS/FAILED races resolve
// last-write-wins with the gateway's payments query as ground truth at
// verification time.
func (s *paymentService) HandleWebhook(ctx context.Context, timestamp, signature string, rawBody []byte) (*WebhookAck, error) {
	if timestamp == "" || signature == "" {
		metrics.GetGlobalCollector().RecordWebhookEvent("unsigned", "rejected")
		return nil, ErrMissingSignature
	}
	if !gateway.VerifySignature(s.webhookSecret, timestamp, rawBody, signature) {
		metrics.GetGlobalCollector().RecordWebhookEvent("bad_signature", "rejected")
		return nil, ErrInvalidSignature
	}

	event, err := ParseWebhookEvent(rawBody)
	if err != nil {
		return nil, ErrMalformedPayload
	}

	switch event.Kind {
	case EventPaymentSuccess:
		return s.handlePaymentSuccess(ctx, event)
	case EventPaymentFailed:
		return s.handlePaymentFailed(ctx, event)
	case EventUserDropped:
		// User abandoned the hosted payment page; the order stays PENDING.
		logger.Log.Warn("User dropped payment", zap.String("order_id", event.OrderID))
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "ignored")
		return &WebhookAck{
			Message:   "Payment drop processed",
			OrderID:   event.OrderID,
			EventType: event.Type,
		}, nil
	default:
		logger.Log.Info("Unhandled webhook type", zap.String("type", event.Type))
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "ignored")
		return &WebhookAck{
			Message:   "Webhook received but not processed",
			EventType: event.Type,
		}, nil
	}
}

func (s *paymentService) handlePaymentSuccess(ctx context.Context, event *WebhookEvent) (*WebhookAck, error) {
	order, err := s.orders.GetByID(event.OrderID)
	if err != nil {
		// The gateway retries 404s on its own schedule; this is non-fatal
		// for the sender but worth an operator's attention.
		logger.Log.Error("Webhook for unknown order",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
		)
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "order_not_found")
		return nil, err
	}

	// Redelivery of an already-applied success event is a no-op.
	if order.PaymentStatus == orderModel.PaymentStatusPaid {
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "duplicate")
		return &WebhookAck{
			Message:   "Payment already confirmed",
			OrderID:   order.ID,
			EventType: event.Type,
		}, nil
	}

	// Never trust the webhook's own success claim: deliveries can be
	// replayed or spoofed, so the gateway's payments query is re-checked
	// synchronously before any mutation.
	payments, err := s.gateway.GetOrderPayments(ctx, event.OrderID)
	if err != nil {
		metrics.GetGlobalCollector().RecordGatewayCall("get_payments", "error")
		return nil, err
	}
	metrics.GetGlobalCollector().RecordGatewayCall("get_payments", "ok")

	if len(payments) == 0 || payments[0].PaymentStatus != gateway.PaymentStatusSuccess {
		got := "none"
		if len(payments) > 0 {
			got = payments[0].PaymentStatus
		}
		logger.Log.Warn("Payment verification failed",
			zap.String("order_id", event.OrderID),
			zap.String("payment_status", got),
		)
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "verification_failed")
		return nil, ErrVerificationFailed
	}

	if err := s.orders.UpdatePaymentState(order.ID,
		orderModel.PaymentStatusPaid, orderModel.OrderStatusConfirmed); err != nil {
		return nil, err
	}

	logger.Log.Info("Order confirmed via webhook",
		zap.String("order_id", order.ID),
		zap.String("cf_payment_id", payments[0].CFPaymentID.String()),
	)
	metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "applied")

	if worker.GlobalPool != nil && order.User.Email != "" {
		worker.GlobalPool.AddTask(worker.EmailTask{
			To:      order.User.Email,
			Subject: "Order Confirmation",
			Body:    mailer.OrderConfirmationBody(order.ID, order.Total, order.PaymentMethod),
			OrderID: order.ID,
		})
	}

	return &WebhookAck{
		Message:   "Payment confirmed and order updated",
		OrderID:   order.ID,
		EventType: event.Type,
	}, nil
}

func (s *paymentService) handlePaymentFailed(ctx context.Context, event *WebhookEvent) (*WebhookAck, error) {
	order, err := s.orders.GetByID(event.OrderID)
	if err != nil {
		logger.Log.Error("Webhook for unknown order",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
		)
		metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "order_not_found")
		return nil, err
	}

	if err := s.orders.UpdatePaymentState(order.ID,
		orderModel.PaymentStatusFailed, orderModel.OrderStatusCancelled); err != nil {
		return nil, err
	}

	logger.Log.Info("Order cancelled after failed payment", zap.String("order_id", order.ID))
	metrics.GetGlobalCollector().RecordWebhookEvent(event.Type, "applied")

	return &WebhookAck{
		Message:   "Payment failure processed and order updated",
		OrderID:   order.ID,
		EventType: event.Type,
	}, nil
}

func normalizePhone(phones ...string) string {
	for _, p := range phones {
		if indianMobile.MatchString(p) {
			return p
		}
	}
	return fallbackPhone
}

func customerName(first, last string) string {
	if first == "" {
		first = "Customer"
	}
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name = "Customer"
	}
	return name
}

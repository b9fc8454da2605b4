package payment

import (
	orderRepo "senpai_store/internal/domain/order/repository"
	"senpai_store/internal/domain/payment/gateway"
	"senpai_store/internal/domain/payment/handler"
	"senpai_store/internal/domain/payment/service"
	"senpai_store/internal/pkg/config"
	"senpai_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the Cashfree integration.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// Depends on the order repositories, so it initializes after order.
	return 30
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig
	oRepo := orderRepo.NewOrderRepository(ctx.DB)
	gw := gateway.NewClient(cfg.Cashfree)

	// The webhook signing key is the API secret key.
	svc := service.NewPaymentService(oRepo, gw, cfg.Cashfree.SecretKey, cfg.App.BaseURL)
	h := handler.NewPaymentHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/cashfree")

	g.POST("/create-session", h.CreateSession)

	// Webhook routes carry no session auth; the HMAC signature is the
	// authentication.
	g.POST("/webhook", h.Webhook)
	g.GET("/webhook/health", h.WebhookHealth)
	g.POST("/webhook/test", h.WebhookTest)
}

package order

import (
	"senpai_store/internal/domain/order/handler"
	"senpai_store/internal/domain/order/repository"
	"senpai_store/internal/domain/order/service"
	userRepo "senpai_store/internal/domain/user/repository"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule wires checkout and order management.
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)
	svc := service.NewOrderService(oRepo, uRepo)
	h := handler.NewOrderHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")

	// Checkout and the post-payment status page are public.
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)

	// Everything that mutates or enumerates orders is dashboard-only.
	admin := g.Group("")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("", h.GetOrders)
		admin.PATCH("/:id", h.UpdateStatus)
		admin.PATCH("/:id/payment-status", h.UpdatePaymentStatus)
	}
}

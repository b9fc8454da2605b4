package admin

import (
	"senpai_store/internal/domain/admin/handler"
	"senpai_store/internal/domain/admin/repository"
	"senpai_store/internal/domain/admin/service"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// AdminModule wires operator auth and the dashboard.
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	return 40
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	aRepo := repository.NewAdminRepository(ctx.DB)

	// The reporting SQL runs on sqlx over the same pool gorm holds.
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	statsRepo := repository.NewStatsRepository(sqlx.NewDb(sqlDB, "pgx"))

	svc := service.NewAdminService(aRepo, statsRepo)
	h := handler.NewAdminHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdminHandler) {
	g := r.Group("/api/admin")
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/verify", h.Verify)

	dash := r.Group("/api/dashboard")
	dash.Use(middleware.AdminAuthMiddleware())
	{
		dash.GET("/stats", h.DashboardStats)
	}
}

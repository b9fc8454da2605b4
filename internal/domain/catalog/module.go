package catalog

import (
	"senpai_store/internal/domain/catalog/handler"
	"senpai_store/internal/domain/catalog/repository"
	"senpai_store/internal/domain/catalog/service"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/internal/pkg/registry"
	"senpai_store/pkg/cache"

	"github.com/gin-gonic/gin"
)

// CatalogModule wires the product catalog.
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewProductRepository(ctx.DB)
	cacheSvc := cache.NewRedisCache(ctx.Redis)
	svc := service.NewProductService(repo, cacheSvc)
	h := handler.NewProductHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProductHandler) {
	g := r.Group("/products")
	g.GET("", h.GetProducts)
	g.GET("/:id", h.GetProduct)

	// Catalog management requires an admin session.
	admin := g.Group("")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.POST("", h.CreateProduct)
		admin.PUT("/:id", h.UpdateProduct)
		admin.POST("/upload", h.UploadImage)
	}
}

package service

import (
	"context"
	"time"

	"senpai_store/internal/domain/catalog/model"
	"senpai_store/internal/domain/catalog/repository"
	"senpai_store/pkg/cache"
	"senpai_store/pkg/logger"

	"go.uber.org/zap"
)

const (
	productListKey  = "products:active"
	productKeyPat   = "products:*"
	productCacheTTL = 10 * time.Minute
)

// ProductService serves catalog reads through the redis cache and keeps the
// cache coherent on admin writes.
type ProductService interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.CacheService
}

func NewProductService(repo repository.ProductRepository, c cache.CacheService) ProductService {
	return &productService{repo: repo, cache: c}
}

func (s *productService) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.cache.Get(ctx, productListKey, &products); err == nil {
		return products, nil
	}

	products, err := s.repo.GetActive()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, productListKey, products, productCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache product list", zap.Error(err))
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	key := "products:" + id
	var product model.Product
	if err := s.cache.Get(ctx, key, &product); err == nil {
		return &product, nil
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, p, productCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache product", zap.String("id", id), zap.Error(err))
	}
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *productService) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *productService) invalidate(ctx context.Context) error {
	if err := s.cache.InvalidatePattern(ctx, productKeyPat); err != nil {
		logger.Log.Warn("Failed to invalidate product cache", zap.Error(err))
	}
	return nil
}

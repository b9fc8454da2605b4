package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"senpai_store/internal/domain/catalog/model"
	"senpai_store/pkg/cache"
	"senpai_store/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(id string) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) GetActive() ([]model.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) Update(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductRepo) Upsert(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

// memoryCache is an in-process CacheService for tests, JSON round-tripping
// like the redis implementation so type behavior matches.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]byte)
	return nil
}

func tee() *model.Product {
	return &model.Product{
		ID:       "forbidden-flame-tee",
		Name:     "The Forbidden Flame Tee",
		Price:    899,
		IsActive: true,
	}
}

func TestGetProducts(t *testing.T) {
	t.Run("second read comes from cache", func(t *testing.T) {
		repo := new(mockProductRepo)
		svc := NewProductService(repo, newMemoryCache())

		repo.On("GetActive").Return([]model.Product{*tee()}, nil).Once()

		first, err := svc.GetProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := svc.GetProducts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)

		repo.AssertNumberOfCalls(t, "GetActive", 1)
	})
}

func TestGetProduct(t *testing.T) {
	repo := new(mockProductRepo)
	svc := NewProductService(repo, newMemoryCache())

	repo.On("GetByID", "forbidden-flame-tee").Return(tee(), nil).Once()

	p, err := svc.GetProduct(context.Background(), "forbidden-flame-tee")
	require.NoError(t, err)
	assert.Equal(t, float64(899), p.Price)

	// Cached; repo must not be hit again.
	_, err = svc.GetProduct(context.Background(), "forbidden-flame-tee")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	repo := new(mockProductRepo)
	svc := NewProductService(repo, newMemoryCache())

	repo.On("GetActive").Return([]model.Product{*tee()}, nil)
	repo.On("Update", mock.Anything).Return(nil)

	_, err := svc.GetProducts(context.Background())
	require.NoError(t, err)

	updated := tee()
	updated.Price = 999
	require.NoError(t, svc.UpdateProduct(context.Background(), updated))

	// After invalidation the next read goes back to the repository.
	_, err = svc.GetProducts(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetActive", 2)
}

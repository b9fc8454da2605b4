package repository

import (
	"senpai_store/internal/domain/catalog/model"

	"gorm.io/gorm"
)

// ProductRepository persists the catalog.
type ProductRepository interface {
	Create(product *model.Product) error
	GetByID(id string) (*model.Product, error)
	GetActive() ([]model.Product, error)
	Update(product *model.Product) error
	Upsert(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetActive() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("is_active = ?", true).Order("created_at").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// Upsert is used by the seeder; an existing row keeps its data.
func (r *productRepository) Upsert(product *model.Product) error {
	var existing model.Product
	err := r.db.Where("id = ?", product.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(product).Error
}

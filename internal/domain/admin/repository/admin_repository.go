package repository

import (
	"senpai_store/internal/domain/admin/model"

	"gorm.io/gorm"
)

// AdminRepository persists dashboard operators.
type AdminRepository interface {
	GetByEmail(email string) (*model.Admin, error)
	GetByID(id string) (*model.Admin, error)
	Create(admin *model.Admin) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByID(id string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

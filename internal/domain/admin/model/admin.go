package model

import (
	baseModel "senpai_store/pkg/model"
)

// Admin is a dashboard operator. Passwords are bcrypt hashes; the hash never
// serializes into responses.
type Admin struct {
	baseModel.BaseModel
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

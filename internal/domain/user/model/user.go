package model

import (
	baseModel "senpai_store/pkg/model"
)

// User is a storefront customer, keyed by email. There is no customer login;
// the record exists so orders and addresses have an owner.
type User struct {
	baseModel.BaseModel
	Email     string `gorm:"unique;not null" json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Address is the shipping address snapshot taken at checkout. Each order
// keeps its own copy; editing a later order never rewrites an earlier one.
type Address struct {
	baseModel.BaseModel
	UserID    string `gorm:"type:uuid;index" json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `gorm:"default:'India'" json:"country"`
	Phone     string `json:"phone"`
}

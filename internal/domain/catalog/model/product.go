package model

import "time"

// Product is a catalog entry. The ID is a human-readable slug (for example
// "forbidden-flame-tee") because it doubles as the storefront URL segment,
// so it does not use the UUID base model.
type Product struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

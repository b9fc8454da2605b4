package main

import (
	"log"

	catalogModel "senpai_store/internal/domain/catalog/model"
	catalogRepo "senpai_store/internal/domain/catalog/repository"
	"senpai_store/internal/pkg/config"
	"senpai_store/pkg/database"
)

func main() {
	config.LoadConfig()
	db := database.InitDatabase()

	repo := catalogRepo.NewProductRepository(db)

	product := &catalogModel.Product{
		ID:          "forbidden-flame-tee",
		Name:        "The Forbidden Flame Tee",
		Price:       899,
		Description: "Premium quality t-shirt with unique flame design",
		Image:       "/product.png",
		Category:    "clothing",
		IsActive:    true,
	}

	if err := repo.Upsert(product); err != nil {
		log.Fatalf("Failed to seed product: %v", err)
	}

	log.Printf("Seeded product: %s", product.ID)
}

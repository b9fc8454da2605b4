package handler

import (
	"errors"
	"net/http"

	"senpai_store/internal/domain/catalog/model"
	"senpai_store/internal/domain/catalog/service"
	"senpai_store/internal/pkg/uploader"
	"senpai_store/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists active products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.service.GetProducts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch products")
		return
	}
	response.Success(c, gin.H{"products": products})
}

// GetProduct fetches one product by slug.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

type ProductInput struct {
	ID          string  `json:"id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsActive    *bool   `json:"isActive"`
}

// CreateProduct adds a catalog entry (admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &model.Product{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Category:    input.Category,
		IsActive:    active,
	}

	if err := h.service.CreateProduct(c.Request.Context(), product); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to create product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct edits a catalog entry (admin).
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch product")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, err.Error())
		return
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Image = input.Image
	existing.Category = input.Category
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := h.service.UpdateProduct(c.Request.Context(), existing); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Failed to update product")
		return
	}
	response.Success(c, gin.H{"product": existing})
}

// UploadImage stores a product image in OSS and returns its URL (admin).
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationError, "No file uploaded")
		return
	}

	if uploader.GlobalUploader == nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Uploader not initialized")
		return
	}

	url, err := uploader.GlobalUploader.UploadFile(file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Upload failed: "+err.Error())
		return
	}

	response.Success(c, gin.H{"url": url})
}

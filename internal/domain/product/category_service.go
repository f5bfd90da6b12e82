// internal/domain/product/category_service.go
package product

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// CategoryService handles category and collection business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetCategories retrieves all active categories
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a category with its products
func (s *CategoryService) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	result := s.db.
		Preload("Products", "is_active = ?", true).
		Preload("Products.Images").
		Preload("Products.Variants").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}

	return &category, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*Category, error) {
	category := Category{
		Name:        req.Name,
		Slug:        Slugify(req.Name),
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// GetCollections retrieves all active collections
func (s *CategoryService) GetCollections() ([]Collection, error) {
	var collections []Collection
	if err := s.db.Where("is_active = ?", true).Order("name asc").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve collections: %w", err)
	}
	return collections, nil
}

// GetCollectionBySlug retrieves a collection with its products
func (s *CategoryService) GetCollectionBySlug(slug string) (*Collection, error) {
	var collection Collection
	result := s.db.
		Preload("Products", "is_active = ?", true).
		Preload("Products.Images").
		Preload("Products.Variants").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&collection)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve collection: %w", result.Error)
	}

	return &collection, nil
}

// CreateCollection creates a new collection
func (s *CategoryService) CreateCollection(req *CreateCategoryRequest) (*Collection, error) {
	collection := Collection{
		Name:        req.Name,
		Slug:        Slugify(req.Name),
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.db.Create(&collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &collection, nil
}

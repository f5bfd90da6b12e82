// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("Running database auto-migrations")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},

		&product.Category{},
		&product.Collection{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Address{},
		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	logrus.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_collection_active ON products(collection_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_product_variants_product_active ON product_variants(product_id, is_active)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_variant ON cart_items(cart_id, product_variant_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_guest_email ON orders(guest_email) WHERE user_id IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logrus.Info("Database indexes created")
	return nil
}

// SeedDevelopmentData inserts an admin user and a small catalog for local
// development. Safe to re-run; existing rows are left alone.
func (m *Migration) SeedDevelopmentData() error {
	var userCount int64
	if err := m.db.Model(&user.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	logrus.Info("Seeding development data")

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	category := product.Category{Name: "Apparel", Slug: "apparel", IsActive: true}
	if err := m.db.Create(&category).Error; err != nil {
		return fmt.Errorf("failed to seed category: %w", err)
	}

	tshirt := product.Product{
		Name:        "Classic T-Shirt",
		Slug:        "classic-t-shirt",
		Description: "Plain cotton t-shirt",
		Price:       2500,
		CategoryID:  &category.ID,
		IsActive:    true,
		Variants: []product.ProductVariant{
			{SKU: "TSHIRT-S-BLK", Size: "S", Color: "black", Stock: 10, IsActive: true},
			{SKU: "TSHIRT-M-BLK", Size: "M", Color: "black", Stock: 10, IsActive: true},
			{SKU: "TSHIRT-L-BLK", Size: "L", Color: "black", Stock: 10, IsActive: true},
		},
	}
	if err := m.db.Create(&tshirt).Error; err != nil {
		return fmt.Errorf("failed to seed product: %w", err)
	}

	return nil
}

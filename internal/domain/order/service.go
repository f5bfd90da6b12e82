// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service errors surfaced to the HTTP layer
var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNotCancellable    = errors.New("order cannot be cancelled in its current status")
)

// Service handles order queries and lifecycle management. Order creation
// lives in the checkout package, which owns the placement transaction.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int         `form:"page,default=1"`
	Limit  int         `form:"limit,default=20"`
	Status OrderStatus `form:"status"`
}

// OrderListResponse represents a paginated order listing
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// StatusResponse is the lightweight status projection for polling clients
type StatusResponse struct {
	ID          uint        `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
}

// GetOrderForOwner retrieves an order scoped to its owner. Orders belonging
// to someone else come back as ErrNotFound rather than a permission error.
func (s *Service) GetOrderForOwner(owner Owner, orderID uint) (*Order, error) {
	query := s.db.
		Preload("Items").
		Preload("Address").
		Preload("Payments").
		Where("id = ?", orderID)
	query = scopeToOwner(query, owner)

	var o Order
	result := query.First(&o)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrderStatusForOwner retrieves only the status of an owner's order
func (s *Service) GetOrderStatusForOwner(owner Owner, orderID uint) (*StatusResponse, error) {
	query := scopeToOwner(s.db.Model(&Order{}).Where("id = ?", orderID), owner)

	var o Order
	result := query.Select("id", "order_number", "status").First(&o)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order status: %w", result.Error)
	}
	return &StatusResponse{ID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status}, nil
}

// ListOrdersForOwner retrieves an owner's orders, newest first
func (s *Service) ListOrdersForOwner(owner Owner, req *OrderListRequest) (*OrderListResponse, error) {
	query := scopeToOwner(s.db.Model(&Order{}), owner)
	return s.listOrders(query, req)
}

// GetOrders retrieves orders without owner scoping, for the admin dashboard
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	return s.listOrders(s.db.Model(&Order{}), req)
}

// GetOrder retrieves a single order by ID without owner scoping
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("Address").
		Preload("Payments").
		Where("id = ?", id).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// UpdateOrderStatus moves an order to a new status after validating the
// transition against the order lifecycle.
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus) (*Order, error) {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !ValidTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, status)
	}

	if err := s.db.Model(&o).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return s.GetOrder(orderID)
}

// CancelOrder cancels a pending or processing order and restores the stock it
// reserved, atomically.
func (s *Service) CancelOrder(orderID uint) (*Order, error) {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !o.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s", ErrNotCancellable, o.Status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.restoreStock(tx, orderID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := tx.Model(&o).Update("status", OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return s.GetOrder(orderID)
}

func (s *Service) listOrders(query *gorm.DB, req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	query = query.Preload("Items").Preload("Address")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *Service) restoreStock(tx *gorm.DB, orderID uint) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range items {
		result := tx.Model(&product.ProductVariant{}).
			Where("id = ?", item.ProductVariantID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to restore variant stock: %w", result.Error)
		}
	}
	return nil
}

// scopeToOwner restricts a query to orders belonging to the owner. Guest
// orders are matched by contact email since guests hold no account.
func scopeToOwner(query *gorm.DB, owner Owner) *gorm.DB {
	if owner.userID != nil {
		return query.Where("user_id = ?", *owner.userID)
	}
	return query.Where("user_id IS NULL AND guest_email = ?", owner.guestEmail)
}

// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// Checkout errors surfaced to the HTTP layer
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("shipping address requires street and city")
)

// InsufficientStockError reports which variant could not satisfy the
// requested quantity.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

// Service handles checkout business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		cartService: cartService,
	}
}

// AddressInput represents the shipping address submitted at checkout
type AddressInput struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// PlaceOrderRequest represents order placement data. The guest contact fields
// are required only when no authenticated user is placing the order.
type PlaceOrderRequest struct {
	Address       AddressInput `json:"address" binding:"required"`
	GuestEmail    string       `json:"guest_email,omitempty"`
	GuestPhone    string       `json:"guest_phone,omitempty"`
	GuestName     string       `json:"guest_name,omitempty"`
	PaymentMethod string       `json:"payment_method,omitempty"`
}

// ValidateRequest represents a pre-flight checkout validation request
type ValidateRequest struct {
	Address AddressInput `json:"address" binding:"required"`
}

// Totals represents the checkout pricing breakdown in cents
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// CheckoutData is the cart snapshot served to the checkout page
type CheckoutData struct {
	Cart   *cart.Cart `json:"cart"`
	Totals Totals     `json:"totals"`
}

// LoadCheckoutData returns the cart with computed totals for the checkout
// page. Snapshots are cached briefly in Redis keyed by identity so repeated
// page loads skip the cart query.
func (s *Service) LoadCheckoutData(identity cart.Identity) (*CheckoutData, error) {
	ctx := context.Background()
	cacheKey := s.snapshotKey(identity)

	if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var data CheckoutData
		if err := json.Unmarshal([]byte(cached), &data); err == nil && snapshotUsable(&data) {
			return &data, nil
		}
	}

	c, err := s.cartService.GetOrCreateCart(identity)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	data := &CheckoutData{
		Cart:   c,
		Totals: ComputeTotals(c.Items, s.config.Checkout.ShippingFlatFee),
	}

	if payload, err := json.Marshal(data); err == nil {
		if err := s.redisClient.Set(ctx, cacheKey, payload, s.config.Checkout.SnapshotTTL).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to cache checkout snapshot")
		}
	}

	return data, nil
}

// ValidateCartAndAddress runs the pre-transaction checks: non-empty cart,
// usable address, and every item currently in stock. Stock here is advisory;
// the placement transaction re-checks it authoritatively.
func (s *Service) ValidateCartAndAddress(identity cart.Identity, address AddressInput) error {
	c, err := s.cartService.GetOrCreateCart(identity)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}

	if err := ValidateAddress(address); err != nil {
		return err
	}

	return CheckStock(c.Items)
}

// CalculateCartTotal computes subtotal, shipping and total for the identity's
// cart from live catalog prices.
func (s *Service) CalculateCartTotal(identity cart.Identity) (*Totals, error) {
	c, err := s.cartService.GetOrCreateCart(identity)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(c.Items, s.config.Checkout.ShippingFlatFee)
	return &totals, nil
}

// PlaceOrder converts the identity's cart into an order atomically: address
// row, order with owner fields, item snapshots priced from in-transaction
// reads, conditional stock decrements, an unpaid payment record, and cart
// clearing all commit or roll back together.
func (s *Service) PlaceOrder(identity cart.Identity, req *PlaceOrderRequest) (*order.Order, error) {
	c, err := s.cartService.GetOrCreateCart(identity)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		metrics.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	if err := ValidateAddress(req.Address); err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("invalid_address").Inc()
		return nil, err
	}

	owner := s.resolveOwner(identity, req)
	if err := owner.Validate(); err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("invalid_owner").Inc()
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	address := order.Address{
		UserID:     identity.UserID,
		FullName:   req.Address.FullName,
		Street:     req.Address.Street,
		City:       req.Address.City,
		PostalCode: req.Address.PostalCode,
		Country:    req.Address.Country,
		Phone:      req.Address.Phone,
	}
	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	// Re-read each variant inside the transaction so line prices, the
	// order total and the stock check all see the same catalog state.
	var subtotal int64
	orderItems := make([]order.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		var variant product.ProductVariant
		if err := tx.Preload("Product").First(&variant, item.ProductVariantID).Error; err != nil {
			tx.Rollback()
			metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
			return nil, fmt.Errorf("failed to read variant %d: %w", item.ProductVariantID, err)
		}

		result := tx.Model(&product.ProductVariant{}).
			Where("id = ? AND stock >= ?", variant.ID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if result.Error != nil {
			tx.Rollback()
			metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
			return nil, fmt.Errorf("failed to decrement stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Re-read so the error reports the committed stock at failure
			// time, not the value a concurrent order may have outdated
			available := variant.Stock
			var current product.ProductVariant
			if err := tx.Select("stock").First(&current, variant.ID).Error; err == nil {
				available = current.Stock
			}
			tx.Rollback()
			metrics.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, &InsufficientStockError{
				SKU:       variant.SKU,
				Requested: item.Quantity,
				Available: available,
			}
		}

		price := variant.Product.Price
		subtotal += price * int64(item.Quantity)
		orderItems = append(orderItems, order.OrderItem{
			ProductVariantID: variant.ID,
			SKU:              variant.SKU,
			Name:             variant.Product.Name,
			Size:             variant.Size,
			Color:            variant.Color,
			Quantity:         item.Quantity,
			Price:            price,
			TotalPrice:       price * int64(item.Quantity),
		})
	}

	shipping := s.config.Checkout.ShippingFlatFee
	o := order.Order{
		Status:         order.OrderStatusPending,
		SubtotalAmount: subtotal,
		ShippingAmount: shipping,
		TotalAmount:    subtotal + shipping,
		AddressID:      address.ID,
	}
	owner.Apply(&o)

	if err := tx.Create(&o).Error; err != nil {
		tx.Rollback()
		metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	o.OrderNumber = o.GenerateOrderNumber()
	if err := tx.Model(&o).Update("order_number", o.OrderNumber).Error; err != nil {
		tx.Rollback()
		metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("failed to set order number: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = o.ID
		if err := tx.Create(&orderItems[i]).Error; err != nil {
			tx.Rollback()
			metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if payment := buildPayment(o.ID, o.TotalAmount, req.PaymentMethod); payment != nil {
		if err := tx.Create(payment).Error; err != nil {
			tx.Rollback()
			metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
			return nil, fmt.Errorf("failed to create payment record: %w", err)
		}
	}

	if err := s.cartService.ClearInTx(tx, c.ID); err != nil {
		tx.Rollback()
		metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	s.InvalidateSnapshot(identity)
	metrics.OrdersPlacedTotal.Inc()

	logrus.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"total_amount": o.TotalAmount,
		"guest":        owner.IsGuest(),
	}).Info("Order placed")

	var placed order.Order
	if err := s.db.Preload("Items").Preload("Address").Preload("Payments").First(&placed, o.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load placed order: %w", err)
	}
	return &placed, nil
}

// ValidateAddress checks the fields the warehouse cannot ship without
func ValidateAddress(address AddressInput) error {
	if strings.TrimSpace(address.Street) == "" || strings.TrimSpace(address.City) == "" {
		return ErrInvalidAddress
	}
	return nil
}

// CheckStock verifies every cart line against the loaded variant stock,
// failing fast on the first shortage.
func CheckStock(items []cart.CartItem) error {
	for _, item := range items {
		if item.Variant == nil {
			return fmt.Errorf("variant %d not loaded", item.ProductVariantID)
		}
		if item.Variant.Stock < item.Quantity {
			return &InsufficientStockError{
				SKU:       item.Variant.SKU,
				Requested: item.Quantity,
				Available: item.Variant.Stock,
			}
		}
	}
	return nil
}

// ComputeTotals derives the pricing breakdown from loaded cart items.
// Lines whose variant or product failed to load contribute nothing.
func ComputeTotals(items []cart.CartItem, shippingFee int64) Totals {
	var subtotal int64
	for _, item := range items {
		if item.Variant == nil || item.Variant.Product == nil {
			continue
		}
		subtotal += item.Variant.Product.Price * int64(item.Quantity)
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Total:    subtotal + shippingFee,
	}
}

func (s *Service) resolveOwner(identity cart.Identity, req *PlaceOrderRequest) order.Owner {
	if identity.UserID != nil {
		return order.AuthenticatedOwner(*identity.UserID)
	}
	return order.GuestOwner(req.GuestEmail, req.GuestPhone, req.GuestName)
}

func (s *Service) snapshotKey(identity cart.Identity) string {
	return "checkout:snapshot:" + identity.Key()
}

// InvalidateSnapshot drops the cached checkout snapshot for an identity.
// Cart mutations register this as their change listener so the checkout page
// never serves a cart state older than the last mutation.
func (s *Service) InvalidateSnapshot(identity cart.Identity) {
	ctx := context.Background()
	if err := s.redisClient.Del(ctx, s.snapshotKey(identity)).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate checkout snapshot")
	}
}

// snapshotUsable rejects cached snapshots that should never have been
// served: a missing or empty cart must fall through to the live query and
// its empty-cart handling.
func snapshotUsable(data *CheckoutData) bool {
	return data != nil && data.Cart != nil && !data.Cart.IsEmpty()
}

// buildPayment returns the unpaid payment record for an order, or nil when no
// payment method was submitted. Orders without a method carry no payment row.
func buildPayment(orderID uint, totalAmount int64, method string) *order.Payment {
	if method == "" {
		return nil
	}
	return &order.Payment{
		OrderID: orderID,
		Method:  method,
		Amount:  totalAmount,
		Status:  order.PaymentStatusUnpaid,
	}
}

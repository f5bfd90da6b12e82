// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// Service errors surfaced to the HTTP layer
var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrVariantNotFound = errors.New("product variant not found or inactive")
)

// Service handles cart business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	onMutation func(Identity)
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// OnMutation registers a listener invoked after every successful cart change.
// The checkout service registers its snapshot invalidation here so cached
// checkout data never outlives a cart mutation.
func (s *Service) OnMutation(fn func(Identity)) {
	s.onMutation = fn
}

func (s *Service) notifyMutation(identity Identity) {
	if s.onMutation != nil {
		s.onMutation(identity)
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductVariantID uint `json:"variant_id" binding:"required"`
	Quantity         int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request.
// A quantity of zero or less removes the item.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetOrCreateCart looks up the cart for the identity, creating one lazily.
// Items are returned with variant and product data eagerly loaded, which the
// checkout totals depend on.
func (s *Service) GetOrCreateCart(identity Identity) (*Cart, error) {
	c, err := s.findCart(identity)
	if err != nil {
		return nil, err
	}

	if c == nil {
		c = &Cart{UserID: identity.UserID}
		if identity.SessionID != "" && identity.UserID == nil {
			sessionID := identity.SessionID
			c.SessionID = &sessionID
		}
		if err := s.db.Create(c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	}

	return s.loadCart(c.ID)
}

// AddItem adds a variant to the cart. An existing line for the same variant is
// incremented by the requested amount rather than overwritten. Stock is not
// checked here; enforcement happens at checkout.
func (s *Service) AddItem(identity Identity, req *AddItemRequest) (*Cart, error) {
	var variant product.ProductVariant
	result := s.db.Where("id = ? AND is_active = ?", req.ProductVariantID, true).First(&variant)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to look up variant: %w", result.Error)
	}

	c, err := s.GetOrCreateCart(identity)
	if err != nil {
		return nil, err
	}

	var existing CartItem
	result = s.db.Where("cart_id = ? AND product_variant_id = ?", c.ID, req.ProductVariantID).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		item := CartItem{
			CartID:           c.ID,
			ProductVariantID: req.ProductVariantID,
			Quantity:         req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	} else if result.Error != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", result.Error)
	} else {
		existing.Quantity += req.Quantity
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	metrics.CartItemsAddedTotal.Inc()
	s.notifyMutation(identity)
	return s.loadCart(c.ID)
}

// UpdateItem sets a cart item's quantity exactly. Zero or negative quantities
// remove the item instead of failing.
func (s *Service) UpdateItem(identity Identity, itemID uint, req *UpdateItemRequest) (*Cart, error) {
	c, item, err := s.findItem(identity, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		if err := s.db.Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	s.notifyMutation(identity)
	return s.loadCart(c.ID)
}

// RemoveItem deletes a cart item unconditionally
func (s *Service) RemoveItem(identity Identity, itemID uint) (*Cart, error) {
	c, item, err := s.findItem(identity, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.notifyMutation(identity)
	return s.loadCart(c.ID)
}

// Clear deletes all items in the identity's cart. Missing cart is a no-op.
func (s *Service) Clear(identity Identity) error {
	c, err := s.findCart(identity)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.notifyMutation(identity)
	return nil
}

// ClearInTx deletes all items for a cart within a caller-owned transaction.
// Used by order placement so cart clearing shares the order's atomicity.
func (s *Service) ClearInTx(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}

// MergeGuestCart folds a session cart into the user's cart on login,
// summing quantities for variants present in both. The session cart row is
// removed afterwards.
func (s *Service) MergeGuestCart(userID uint, sessionID string) (*Cart, error) {
	userIdentity := Identity{UserID: &userID}

	var guestCart Cart
	result := s.db.Preload("Items").Where("session_id = ?", sessionID).First(&guestCart)
	if result.Error == gorm.ErrRecordNotFound || (result.Error == nil && len(guestCart.Items) == 0) {
		// Nothing to merge
		return s.GetOrCreateCart(userIdentity)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up guest cart: %w", result.Error)
	}

	userCart, err := s.GetOrCreateCart(userIdentity)
	if err != nil {
		return nil, err
	}

	for _, guestItem := range guestCart.Items {
		var existing CartItem
		result := s.db.Where("cart_id = ? AND product_variant_id = ?", userCart.ID, guestItem.ProductVariantID).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			item := CartItem{
				CartID:           userCart.ID,
				ProductVariantID: guestItem.ProductVariantID,
				Quantity:         guestItem.Quantity,
			}
			if err := s.db.Create(&item).Error; err != nil {
				return nil, fmt.Errorf("failed to merge cart item: %w", err)
			}
		} else if result.Error != nil {
			return nil, fmt.Errorf("failed to look up cart item: %w", result.Error)
		} else {
			existing.Quantity += guestItem.Quantity
			if err := s.db.Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to merge cart item: %w", err)
			}
		}
	}

	if err := s.db.Where("cart_id = ?", guestCart.ID).Delete(&CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear guest cart: %w", err)
	}
	if err := s.db.Delete(&guestCart).Error; err != nil {
		return nil, fmt.Errorf("failed to remove guest cart: %w", err)
	}

	// Both sides changed: the folded user cart and the removed session cart
	s.notifyMutation(userIdentity)
	s.notifyMutation(Identity{SessionID: sessionID})

	return s.loadCart(userCart.ID)
}

// findCart locates the cart matching the identity's user OR session.
// Returns nil without error when no cart exists.
func (s *Service) findCart(identity Identity) (*Cart, error) {
	query := s.db.Model(&Cart{})
	switch {
	case identity.UserID != nil && identity.SessionID != "":
		query = query.Where("user_id = ? OR session_id = ?", *identity.UserID, identity.SessionID)
	case identity.UserID != nil:
		query = query.Where("user_id = ?", *identity.UserID)
	case identity.SessionID != "":
		query = query.Where("session_id = ?", identity.SessionID)
	default:
		return nil, ErrNoIdentity
	}

	var c Cart
	result := query.First(&c)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up cart: %w", result.Error)
	}
	return &c, nil
}

// findItem locates a cart item scoped to the identity's cart
func (s *Service) findItem(identity Identity, itemID uint) (*Cart, *CartItem, error) {
	c, err := s.findCart(identity)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, ErrItemNotFound
	}

	var item CartItem
	result := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil, ErrItemNotFound
	}
	if result.Error != nil {
		return nil, nil, fmt.Errorf("failed to look up cart item: %w", result.Error)
	}

	return c, &item, nil
}

// loadCart reloads a cart with items, variants and products eagerly loaded
func (s *Service) loadCart(cartID uint) (*Cart, error) {
	var c Cart
	err := s.db.
		Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		First(&c, cartID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &c, nil
}

// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// resolveIdentity builds the cart identity from the authenticated user (if
// any) and the session cookie provisioned by the session middleware.
func resolveIdentity(c *gin.Context) (cart.Identity, error) {
	var userIDPtr *uint
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		userIDPtr = &userID
	}
	return cart.NewIdentity(userIDPtr, middleware.GetSessionIDFromContext(c))
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	cartData, err := h.cartService.GetOrCreateCart(identity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, cartData)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	cartData, err := h.cartService.AddItem(identity, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, cartData)
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	cartData, err := h.cartService.UpdateItem(identity, itemID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, cartData)
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	cartData, err := h.cartService.RemoveItem(identity, itemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, cartData)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.cartService.Clear(identity); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"cleared": true})
}

// MergeCart handles POST /cart/merge. Requires authentication; folds the
// session cart into the user's cart after login.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID := middleware.GetSessionIDFromContext(c)
	if sessionID == "" {
		respondFail(c, http.StatusBadRequest, "No session to merge")
		return
	}

	cartData, err := h.cartService.MergeGuestCart(userID, sessionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, cartData)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

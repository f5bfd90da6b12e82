// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
	}
}

// StartSession handles POST /checkout/session
func (h *CheckoutHandler) StartSession(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	data, err := h.checkoutService.LoadCheckoutData(identity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, data)
}

// Validate handles POST /checkout/validate
func (h *CheckoutHandler) Validate(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var req checkout.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.checkoutService.ValidateCartAndAddress(identity, req.Address); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"valid": true})
}

// Calculate handles POST /checkout/calculate
func (h *CheckoutHandler) Calculate(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	totals, err := h.checkoutService.CalculateCartTotal(identity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, totals)
}

// PlaceOrder handles POST /checkout/place-order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	placed, err := h.checkoutService.PlaceOrder(identity, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, placed)
}

// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles customer-facing order endpoints
type OrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		config:       cfg,
	}
}

// resolveOwner derives the order owner from the request: the authenticated
// user when present, otherwise the guest email passed as a query parameter.
func resolveOwner(c *gin.Context) (order.Owner, bool) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return order.AuthenticatedOwner(userID), true
	}
	if email := c.Query("email"); email != "" {
		return order.GuestOwner(email, "", ""), true
	}
	return order.Owner{}, false
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "Authentication or guest email required")
		return
	}

	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.orderService.ListOrdersForOwner(owner, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "Authentication or guest email required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orderService.GetOrderForOwner(owner, orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, o)
}

// GetOrderStatus handles GET /orders/:id/status
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "Authentication or guest email required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	status, err := h.orderService.GetOrderStatusForOwner(owner, orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, status)
}

// internal/interfaces/http/handlers/admin_order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/invoice"
)

// AdminOrderHandler handles admin order management endpoints
type AdminOrderHandler struct {
	orderService   *order.Service
	userService    *user.Service
	invoiceService *invoice.Service
	config         *config.Config
}

// NewAdminOrderHandler creates a new admin order handler
func NewAdminOrderHandler(orderService *order.Service, userService *user.Service, invoiceService *invoice.Service, cfg *config.Config) *AdminOrderHandler {
	return &AdminOrderHandler{
		orderService:   orderService,
		userService:    userService,
		invoiceService: invoiceService,
		config:         cfg,
	}
}

// UpdateStatusRequest represents an admin status change request
type UpdateStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// ListOrders handles GET /admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, orders)
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, o)
}

// UpdateStatus handles PUT /admin/orders/:id/status
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, o)
}

// CancelOrder handles POST /admin/orders/:id/cancel
func (h *AdminOrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orderService.CancelOrder(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, o)
}

// GetInvoice handles GET /admin/orders/:id/invoice
func (h *AdminOrderHandler) GetInvoice(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	customerName, customerEmail := h.customerContact(o)

	pdf, err := h.invoiceService.GenerateInvoice(o, customerName, customerEmail)
	if err != nil {
		respondError(c, "Failed to generate invoice")
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

func (h *AdminOrderHandler) customerContact(o *order.Order) (name, email string) {
	if o.UserID == nil {
		return o.GuestName, o.GuestEmail
	}
	u, err := h.userService.GetProfile(*o.UserID)
	if err != nil {
		return "", ""
	}
	return u.GetFullName(), u.Email
}

// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Response is the uniform envelope for every endpoint. Status is "success"
// for 2xx, "fail" for client errors, "error" for server errors.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{Status: "success", Data: data})
}

func respondFail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Status: "fail", Message: message})
}

func respondError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{Status: "error", Message: message})
}

// respondDomainError maps domain errors onto HTTP status codes. Anything not
// in the taxonomy is a server error with a generic message.
func respondDomainError(c *gin.Context, err error) {
	var stockErr *checkout.InsufficientStockError

	switch {
	case errors.Is(err, cart.ErrNoIdentity):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidAddress),
		errors.Is(err, order.ErrInvalidOwner),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, cart.ErrVariantNotFound),
		errors.Is(err, user.ErrEmailTaken):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &stockErr):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, "An unexpected error occurred")
	}
}

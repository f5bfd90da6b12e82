package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

func recordDomainError(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondDomainError(c, err)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"no identity", cart.ErrNoIdentity, http.StatusUnauthorized, "fail"},
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest, "fail"},
		{"invalid address", checkout.ErrInvalidAddress, http.StatusBadRequest, "fail"},
		{"insufficient stock", &checkout.InsufficientStockError{SKU: "SKU-1", Requested: 2, Available: 1}, http.StatusBadRequest, "fail"},
		{"item not found", cart.ErrItemNotFound, http.StatusNotFound, "fail"},
		{"order not found", order.ErrNotFound, http.StatusNotFound, "fail"},
		{"bad transition", order.ErrInvalidTransition, http.StatusBadRequest, "fail"},
		{"bad credentials", user.ErrInvalidCredentials, http.StatusUnauthorized, "fail"},
		{"unexpected", errors.New("db connection lost"), http.StatusInternalServerError, "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := recordDomainError(t, tc.err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantStatus, resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestUnexpectedErrorsHideDetails(t *testing.T) {
	_, resp := recordDomainError(t, errors.New("password=hunter2 leaked into error"))
	assert.NotContains(t, resp.Message, "hunter2")
}

func TestWrappedErrorsStillMap(t *testing.T) {
	wrapped := errors.Join(errors.New("while placing order"), checkout.ErrEmptyCart)
	code, resp := recordDomainError(t, wrapped)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", resp.Status)
}

func TestRespondSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondSuccess(c, http.StatusCreated, gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Message)
	assert.NotNil(t, resp.Data)
}

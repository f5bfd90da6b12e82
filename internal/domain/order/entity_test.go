package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, ValidTransition(tc.from, tc.to))
		})
	}
}

func TestOwner(t *testing.T) {
	t.Run("authenticated owner applies user id only", func(t *testing.T) {
		owner := AuthenticatedOwner(42)
		require.NoError(t, owner.Validate())
		assert.False(t, owner.IsGuest())

		var o Order
		owner.Apply(&o)
		require.NotNil(t, o.UserID)
		assert.Equal(t, uint(42), *o.UserID)
		assert.Empty(t, o.GuestEmail)
	})

	t.Run("guest owner applies contact fields", func(t *testing.T) {
		owner := GuestOwner("jane@example.com", "+15550100", "Jane Doe")
		require.NoError(t, owner.Validate())
		assert.True(t, owner.IsGuest())

		var o Order
		owner.Apply(&o)
		assert.Nil(t, o.UserID)
		assert.Equal(t, "jane@example.com", o.GuestEmail)
		assert.Equal(t, "+15550100", o.GuestPhone)
		assert.Equal(t, "Jane Doe", o.GuestName)
	})

	t.Run("authenticated owner clears guest fields", func(t *testing.T) {
		o := Order{GuestEmail: "stale@example.com", GuestPhone: "+15550100", GuestName: "Stale"}
		AuthenticatedOwner(7).Apply(&o)
		require.NotNil(t, o.UserID)
		assert.Empty(t, o.GuestEmail)
		assert.Empty(t, o.GuestPhone)
		assert.Empty(t, o.GuestName)
	})

	t.Run("guest owner without email is invalid", func(t *testing.T) {
		owner := GuestOwner("", "+15550100", "Jane Doe")
		assert.ErrorIs(t, owner.Validate(), ErrInvalidOwner)
	})
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: OrderStatusProcessing}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).CanBeCancelled())
}

func TestGenerateOrderNumber(t *testing.T) {
	o := &Order{ID: 17}
	expected := fmt.Sprintf("ORD-%s-00017", time.Now().Format("20060102"))
	assert.Equal(t, expected, o.GenerateOrderNumber())
}

func TestGetFormattedTotal(t *testing.T) {
	o := &Order{TotalAmount: 13000}
	assert.Equal(t, 130.0, o.GetFormattedTotal())
}

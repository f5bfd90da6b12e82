package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	t.Run("fails when both user and session are absent", func(t *testing.T) {
		_, err := NewIdentity(nil, "")
		assert.ErrorIs(t, err, ErrNoIdentity)
	})

	t.Run("accepts session only", func(t *testing.T) {
		identity, err := NewIdentity(nil, "abc-123")
		require.NoError(t, err)
		assert.False(t, identity.IsAuthenticated())
		assert.Equal(t, "session:abc-123", identity.Key())
	})

	t.Run("accepts user only", func(t *testing.T) {
		userID := uint(42)
		identity, err := NewIdentity(&userID, "")
		require.NoError(t, err)
		assert.True(t, identity.IsAuthenticated())
		assert.Equal(t, "user:42", identity.Key())
	})

	t.Run("user wins the cache key when both are present", func(t *testing.T) {
		userID := uint(7)
		identity, err := NewIdentity(&userID, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, "user:7", identity.Key())
	})
}

func TestCartHelpers(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalQuantity())

	c.Items = []CartItem{
		{ProductVariantID: 1, Quantity: 2},
		{ProductVariantID: 2, Quantity: 3},
	}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 5, c.TotalQuantity())
}

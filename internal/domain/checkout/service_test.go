package checkout

import (
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

func cartItem(sku string, price int64, quantity, stock int) cart.CartItem {
	return cart.CartItem{
		ProductVariantID: 1,
		Quantity:         quantity,
		Variant: &product.ProductVariant{
			SKU:     sku,
			Stock:   stock,
			Product: &product.Product{Name: "Test Product", Price: price},
		},
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("sums line prices and adds flat shipping", func(t *testing.T) {
		items := []cart.CartItem{cartItem("SKU-1", 5000, 2, 3)}

		totals := ComputeTotals(items, 3000)

		assert.Equal(t, int64(10000), totals.Subtotal)
		assert.Equal(t, int64(3000), totals.Shipping)
		assert.Equal(t, int64(13000), totals.Total)
	})

	t.Run("multiple lines", func(t *testing.T) {
		items := []cart.CartItem{
			cartItem("SKU-1", 2500, 1, 10),
			cartItem("SKU-2", 1000, 3, 10),
		}

		totals := ComputeTotals(items, 500)
		assert.Equal(t, int64(5500), totals.Subtotal)
		assert.Equal(t, int64(6000), totals.Total)
	})

	t.Run("skips lines with missing variant data", func(t *testing.T) {
		items := []cart.CartItem{
			{ProductVariantID: 1, Quantity: 2},
			cartItem("SKU-1", 1000, 1, 5),
		}

		totals := ComputeTotals(items, 0)
		assert.Equal(t, int64(1000), totals.Subtotal)
	})

	t.Run("empty cart still carries shipping", func(t *testing.T) {
		totals := ComputeTotals(nil, 3000)
		assert.Equal(t, int64(0), totals.Subtotal)
		assert.Equal(t, int64(3000), totals.Total)
	})
}

func TestValidateAddress(t *testing.T) {
	valid := AddressInput{Street: "1 Main St", City: "Springfield"}
	assert.NoError(t, ValidateAddress(valid))

	cases := map[string]AddressInput{
		"missing street":  {City: "Springfield"},
		"missing city":    {Street: "1 Main St"},
		"whitespace only": {Street: "   ", City: "Springfield"},
		"both missing":    {},
		"whitespace city": {Street: "1 Main St", City: "\t"},
	}
	for name, address := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateAddress(address), ErrInvalidAddress)
		})
	}
}

func TestCheckStock(t *testing.T) {
	t.Run("passes when every line has enough stock", func(t *testing.T) {
		items := []cart.CartItem{
			cartItem("SKU-1", 1000, 2, 3),
			cartItem("SKU-2", 1000, 1, 1),
		}
		assert.NoError(t, CheckStock(items))
	})

	t.Run("fails fast naming the short SKU", func(t *testing.T) {
		items := []cart.CartItem{
			cartItem("SKU-1", 1000, 2, 3),
			cartItem("SKU-SHORT", 1000, 5, 2),
			cartItem("SKU-ALSO-SHORT", 1000, 9, 0),
		}

		err := CheckStock(items)
		require.Error(t, err)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "SKU-SHORT", stockErr.SKU)
		assert.Equal(t, 5, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
		assert.Contains(t, err.Error(), "SKU-SHORT")
	})

	t.Run("fails on unloaded variant", func(t *testing.T) {
		items := []cart.CartItem{{ProductVariantID: 9, Quantity: 1}}
		assert.Error(t, CheckStock(items))
	})
}

func TestBuildPayment(t *testing.T) {
	t.Run("no method means no payment row", func(t *testing.T) {
		assert.Nil(t, buildPayment(1, 13000, ""))
	})

	t.Run("method yields an unpaid row for the order total", func(t *testing.T) {
		p := buildPayment(7, 13000, "card")
		require.NotNil(t, p)
		assert.Equal(t, uint(7), p.OrderID)
		assert.Equal(t, "card", p.Method)
		assert.Equal(t, int64(13000), p.Amount)
		assert.Equal(t, order.PaymentStatusUnpaid, p.Status)
	})
}

func TestSnapshotUsable(t *testing.T) {
	assert.False(t, snapshotUsable(nil))
	assert.False(t, snapshotUsable(&CheckoutData{}))
	assert.False(t, snapshotUsable(&CheckoutData{Cart: &cart.Cart{}}))

	stocked := &CheckoutData{Cart: &cart.Cart{Items: []cart.CartItem{cartItem("SKU-1", 1000, 1, 5)}}}
	assert.True(t, snapshotUsable(stocked))
}

// Placement needs PostgreSQL and Redis; run against a dev stack seeded by
// SeedDevelopmentData by removing the skip.
func TestPlaceOrderIntegration(t *testing.T) {
	t.Skip("requires PostgreSQL and Redis")

	var (
		db  *gorm.DB
		rdb *redis.Client
	)
	cfg := &config.Config{Checkout: config.CheckoutConfig{
		ShippingFlatFee: 3000,
		SnapshotTTL:     time.Minute,
	}}
	cartService := cart.NewService(db, cfg)
	svc := NewService(db, rdb, cfg, cartService)
	cartService.OnMutation(svc.InvalidateSnapshot)

	address := AddressInput{Street: "1 Main St", City: "Springfield"}

	variantBySKU := func(t *testing.T, sku string) (uint, int) {
		t.Helper()
		var v product.ProductVariant
		require.NoError(t, db.Where("sku = ?", sku).First(&v).Error)
		return v.ID, v.Stock
	}
	countRows := func(t *testing.T, model interface{}) int64 {
		t.Helper()
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}

	t.Run("empty cart placement writes nothing", func(t *testing.T) {
		identity := cart.Identity{SessionID: "placement-empty"}
		ordersBefore := countRows(t, &order.Order{})
		addressesBefore := countRows(t, &order.Address{})

		_, err := svc.PlaceOrder(identity, &PlaceOrderRequest{Address: address, GuestEmail: "g@example.com"})
		assert.ErrorIs(t, err, ErrEmptyCart)

		assert.Equal(t, ordersBefore, countRows(t, &order.Order{}))
		assert.Equal(t, addressesBefore, countRows(t, &order.Address{}))
	})

	t.Run("guest placement decrements stock, clears the cart and records contact", func(t *testing.T) {
		identity := cart.Identity{SessionID: "placement-guest"}
		variantID, stockBefore := variantBySKU(t, "TSHIRT-M-BLK")

		_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 2})
		require.NoError(t, err)

		placed, err := svc.PlaceOrder(identity, &PlaceOrderRequest{
			Address:    address,
			GuestEmail: "guest@example.com",
			GuestPhone: "+15550100",
			GuestName:  "Guest Buyer",
		})
		require.NoError(t, err)

		assert.Equal(t, order.OrderStatusPending, placed.Status)
		assert.Nil(t, placed.UserID)
		assert.Equal(t, "guest@example.com", placed.GuestEmail)
		assert.Equal(t, "+15550100", placed.GuestPhone)
		assert.Equal(t, "Guest Buyer", placed.GuestName)
		require.Len(t, placed.Items, 1)
		assert.Equal(t, 2, placed.Items[0].Quantity)
		assert.Empty(t, placed.Payments, "no payment method was submitted")

		_, stockAfter := variantBySKU(t, "TSHIRT-M-BLK")
		assert.Equal(t, stockBefore-2, stockAfter)

		reloaded, err := cartService.GetOrCreateCart(identity)
		require.NoError(t, err)
		assert.True(t, reloaded.IsEmpty())
	})

	t.Run("authenticated placement leaves guest fields empty", func(t *testing.T) {
		userID := uint(1) // seeded admin user
		identity := cart.Identity{UserID: &userID}
		variantID, _ := variantBySKU(t, "TSHIRT-S-BLK")

		_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 1})
		require.NoError(t, err)

		placed, err := svc.PlaceOrder(identity, &PlaceOrderRequest{Address: address})
		require.NoError(t, err)
		require.NotNil(t, placed.UserID)
		assert.Equal(t, userID, *placed.UserID)
		assert.Empty(t, placed.GuestEmail)
		assert.Empty(t, placed.GuestPhone)
		assert.Empty(t, placed.GuestName)
	})

	t.Run("payment row exists only when a method is submitted", func(t *testing.T) {
		identity := cart.Identity{SessionID: "placement-payment"}
		variantID, _ := variantBySKU(t, "TSHIRT-S-BLK")

		_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 1})
		require.NoError(t, err)

		placed, err := svc.PlaceOrder(identity, &PlaceOrderRequest{
			Address:       address,
			GuestEmail:    "guest@example.com",
			PaymentMethod: "card",
		})
		require.NoError(t, err)
		require.Len(t, placed.Payments, 1)
		assert.Equal(t, "card", placed.Payments[0].Method)
		assert.Equal(t, order.PaymentStatusUnpaid, placed.Payments[0].Status)
		assert.Equal(t, placed.TotalAmount, placed.Payments[0].Amount)
	})

	t.Run("cart mutations invalidate the checkout snapshot", func(t *testing.T) {
		identity := cart.Identity{SessionID: "placement-snapshot"}
		variantID, _ := variantBySKU(t, "TSHIRT-M-BLK")

		_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 1})
		require.NoError(t, err)

		// Prime the cache, then clear the cart behind it
		_, err = svc.LoadCheckoutData(identity)
		require.NoError(t, err)
		require.NoError(t, cartService.Clear(identity))

		_, err = svc.LoadCheckoutData(identity)
		assert.ErrorIs(t, err, ErrEmptyCart, "cleared cart must not serve a cached snapshot")
	})

	t.Run("concurrent placements against short stock commit exactly once", func(t *testing.T) {
		variantID, _ := variantBySKU(t, "TSHIRT-L-BLK")
		require.NoError(t, db.Model(&product.ProductVariant{}).Where("id = ?", variantID).Update("stock", 1).Error)

		identities := []cart.Identity{
			{SessionID: "placement-race-a"},
			{SessionID: "placement-race-b"},
		}
		errs := make(chan error, len(identities))
		var wg sync.WaitGroup
		for _, identity := range identities {
			_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 1})
			require.NoError(t, err)

			wg.Add(1)
			go func(identity cart.Identity) {
				defer wg.Done()
				_, err := svc.PlaceOrder(identity, &PlaceOrderRequest{Address: address, GuestEmail: "race@example.com"})
				errs <- err
			}(identity)
		}
		wg.Wait()
		close(errs)

		var failures int
		for err := range errs {
			if err == nil {
				continue
			}
			var stockErr *InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			failures++
		}
		assert.Equal(t, 1, failures, "exactly one placement must lose the decrement race")

		_, stockAfter := variantBySKU(t, "TSHIRT-L-BLK")
		assert.Equal(t, 0, stockAfter)
	})

	t.Run("failed decrement rolls the whole transaction back", func(t *testing.T) {
		identity := cart.Identity{SessionID: "placement-rollback"}
		variantID, _ := variantBySKU(t, "TSHIRT-S-BLK")
		require.NoError(t, db.Model(&product.ProductVariant{}).Where("id = ?", variantID).Update("stock", 1).Error)

		_, err := cartService.AddItem(identity, &cart.AddItemRequest{ProductVariantID: variantID, Quantity: 5})
		require.NoError(t, err)

		ordersBefore := countRows(t, &order.Order{})
		addressesBefore := countRows(t, &order.Address{})

		_, err = svc.PlaceOrder(identity, &PlaceOrderRequest{Address: address, GuestEmail: "g@example.com"})
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 1, stockErr.Available, "error reports committed stock at failure time")

		assert.Equal(t, ordersBefore, countRows(t, &order.Order{}))
		assert.Equal(t, addressesBefore, countRows(t, &order.Address{}), "address row must not survive the rollback")

		reloaded, err := cartService.GetOrCreateCart(identity)
		require.NoError(t, err)
		assert.False(t, reloaded.IsEmpty(), "cart survives a failed placement")
	})
}

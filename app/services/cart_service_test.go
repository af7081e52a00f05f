package services

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/db/testdb"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCartService_AddToCartMergesLines(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, "c1", 1, 2)
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, "c1", 1, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	lines, err := store.CartItems.GetByCartID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	cart, err := store.Carts.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cart.Version)
}

func TestCartService_AddToCartValidation(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "c1", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.AddToCart(ctx, "c1", 1, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddToCart(ctx, "c1", 42, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	count, err := svc.CountItems(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartService_AddToCartBoundsLineQuantity(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "c1", 1, math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.AddToCart(ctx, "c1", 1, MaxLineQuantity+1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	line, err := svc.AddToCart(ctx, "c1", 1, MaxLineQuantity-1)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, "c1", 1, 2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, KindValidation, KindOf(err))

	stored, err := store.CartItems.GetByID(ctx, "c1", line.ID)
	require.NoError(t, err)
	assert.Equal(t, MaxLineQuantity-1, stored.Quantity)

	full, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxLineQuantity, full.Quantity)

	_, err = svc.UpdateQuantity(ctx, "c1", line.ID, math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	totals, err := svc.GetOrderTotals(ctx, "c1")
	require.NoError(t, err)
	assertDecimal(t, "1000000", totals.ItemsTotal)
}

func TestCartService_ConcurrentAddsKeepOneLine(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())

	quantities := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	want := 0
	var wg sync.WaitGroup
	errs := make(chan error, len(quantities))
	for _, q := range quantities {
		want += q
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := svc.AddToCart(context.Background(), "c1", 1, q)
			errs <- err
		}(q)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, err := store.CartItems.GetByCartID(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, want, lines[0].Quantity)
}

func TestCartService_UpdateQuantityClampsToOne(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, "c1", 1, 4)
	require.NoError(t, err)

	for _, q := range []int{0, -1, -100} {
		updated, err := svc.UpdateQuantity(ctx, "c1", line.ID, q)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Quantity)

		stored, err := store.CartItems.GetByID(ctx, "c1", line.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Quantity)
	}

	updated, err := svc.UpdateQuantity(ctx, "c1", line.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = svc.UpdateQuantity(ctx, "c1", 999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = svc.UpdateQuantity(ctx, "someone-else", line.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateNote(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateNote(ctx, "c1", line.ID, "gift wrap please")
	require.NoError(t, err)
	assert.Equal(t, "gift wrap please", updated.Note)
	assert.Equal(t, 1, updated.Quantity)

	_, err = svc.UpdateNote(ctx, "c1", line.ID+1, "x")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItemIsIdempotent(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, "c1", line.ID))
	require.NoError(t, svc.RemoveItem(ctx, "c1", line.ID))
	require.NoError(t, svc.RemoveItem(ctx, "never-used", 77))

	count, err := svc.CountItems(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartService_EmptyCartThenTotalsAreZero(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "900")
	testdb.SeedProduct(t, db, 2, "Lamp", "home", "30")
	notifier := newRecordingNotifier()
	svc := NewCartService(store, notifier, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "c1", 1, 3)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "c1", 2, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "c2", 2, 1)
	require.NoError(t, err)

	require.NoError(t, svc.EmptyCart(ctx, "c1"))

	totals, err := svc.GetOrderTotals(ctx, "c1")
	require.NoError(t, err)
	assertDecimal(t, "0", totals.ItemsTotal)
	assertDecimal(t, "0", totals.DeliveryFee)
	assertDecimal(t, "0", totals.GrandTotal)

	pushed, ok := notifier.last("c1")
	require.True(t, ok)
	assertDecimal(t, "0", pushed.GrandTotal)

	other, err := svc.GetOrderTotals(ctx, "c2")
	require.NoError(t, err)
	assertDecimal(t, "80", other.GrandTotal)

	require.NoError(t, svc.EmptyCart(ctx, "brand-new"))
}

func TestCartService_EmptyCartIsAtomicForReaders(t *testing.T) {
	db, store := newTestStore(t)
	for i := uint(1); i <= 5; i++ {
		testdb.SeedProduct(t, db, i, "Item "+string(rune('A'+i)), "misc", "100")
	}
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()
	for i := uint(1); i <= 5; i++ {
		_, err := svc.AddToCart(ctx, "c1", i, 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	seen := make(chan string, 50)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totals, err := svc.GetOrderTotals(ctx, "c1")
			if err == nil {
				seen <- totals.ItemsTotal.StringFixed(0)
			}
		}()
	}
	require.NoError(t, svc.EmptyCart(ctx, "c1"))
	wg.Wait()
	close(seen)

	for total := range seen {
		assert.Contains(t, []string{"0", "500"}, total)
	}
}

func TestCartService_GetCartView(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Laptop", "electronics", "1200")
	testdb.SeedProduct(t, db, 2, "Lamp", "home", "30")
	campaigns := NewCampaignService(store, nil, zap.NewNop())
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	_, err := campaigns.ApplyCampaign(ctx, 1, decimal.NewFromInt(950))
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "c1", 2, 2)
	require.NoError(t, err)

	view, err := svc.GetCart(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", view.CartID)
	assert.Equal(t, int64(2), view.Version)
	assert.Equal(t, 3, view.ItemCount)
	require.Len(t, view.Lines, 2)

	laptop := view.Lines[0]
	assert.True(t, laptop.IsCampaign)
	assertDecimal(t, "1200", laptop.BasePrice)
	assertDecimal(t, "950", laptop.UnitPrice)
	assert.Equal(t, "$950.00", laptop.UnitPriceDisplay)

	lamp := view.Lines[1]
	assertDecimal(t, "60", lamp.LineTotal)
	assert.Equal(t, "$60.00", lamp.LineTotalDisplay)

	assertDecimal(t, "1010", view.Totals.ItemsTotal)
	assertDecimal(t, "0", view.Totals.DeliveryFee)
	assert.Equal(t, "$1,010.00", view.GrandTotalDisplay)
	assert.Equal(t, "$0.00", view.DeliveryFeeDisplay)
}

func TestCartService_GetCartOfUnknownCartIsEmpty(t *testing.T) {
	_, store := newTestStore(t)
	svc := NewCartService(store, nil, zap.NewNop())

	view, err := svc.GetCart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Version)
	assert.Equal(t, "$0.00", view.GrandTotalDisplay)
}

func TestCartService_TotalsTiers(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "900")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)

	totals, err := svc.GetOrderTotals(ctx, "c1")
	require.NoError(t, err)
	assertDecimal(t, "900", totals.ItemsTotal)
	assertDecimal(t, "50", totals.DeliveryFee)
	assertDecimal(t, "950", totals.GrandTotal)

	_, err = svc.UpdateQuantity(ctx, "c1", line.ID, 2)
	require.NoError(t, err)

	totals, err = svc.GetOrderTotals(ctx, "c1")
	require.NoError(t, err)
	assertDecimal(t, "1800", totals.ItemsTotal)
	assertDecimal(t, "0", totals.DeliveryFee)
	assertDecimal(t, "1800", totals.GrandTotal)
}

func TestCartService_MutationsPublishTotals(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "900")
	notifier := newRecordingNotifier()
	svc := NewCartService(store, notifier, zap.NewNop())
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "c1", line.ID, 2)
	require.NoError(t, err)
	_, err = svc.UpdateNote(ctx, "c1", line.ID, "n")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, "c1", line.ID))
	require.NoError(t, svc.RemoveItem(ctx, "c1", line.ID))

	assert.Equal(t, 4, notifier.count("c1"), "a no-op remove publishes nothing")
	last, _ := notifier.last("c1")
	assertDecimal(t, "0", last.GrandTotal)
}

func TestCartService_MissingProductIsSkipped(t *testing.T) {
	db, store := newTestStore(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	svc := NewCartService(store, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "c1", 1, 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{CartID: "c1", ProductID: 404, Quantity: 3}).Error)

	view, err := svc.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	assert.Equal(t, []uint{404}, view.Totals.MissingProductIDs)
	assertDecimal(t, "100", view.Totals.ItemsTotal)
}

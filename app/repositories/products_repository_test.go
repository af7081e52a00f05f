package repositories

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/db/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepository_GetProductsOrdersByIDWithReviews(t *testing.T) {
	db := testdb.Open(t)
	testdb.SeedProduct(t, db, 3, "Lamp", "home", "30")
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "900")
	testdb.SeedReview(t, db, 1, 4)
	testdb.SeedReview(t, db, 1, 2)
	store := NewStore(db, Options{})

	products, err := store.Products.GetProducts(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, uint(1), products[0].ID)
	assert.Equal(t, uint(3), products[1].ID)
	require.Len(t, products[0].Reviews, 2)
	assert.Equal(t, 4, products[0].Reviews[0].Stars)
	assert.Equal(t, 2, products[0].Reviews[1].Stars)
	assert.Empty(t, products[1].Reviews)
}

func TestProductRepository_GetByIDAndSlug(t *testing.T) {
	db := testdb.Open(t)
	seeded := testdb.SeedProduct(t, db, 7, "Desk Chair", "home", "120")
	store := NewStore(db, Options{})
	ctx := context.Background()

	byID, err := store.Products.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Desk Chair", byID.Title)

	bySlug, err := store.Products.GetBySlug(ctx, seeded.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint(7), bySlug.ID)

	_, err = store.Products.GetByID(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_SetCampaignPrice(t *testing.T) {
	db := testdb.Open(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	store := NewStore(db, Options{})
	ctx := context.Background()

	require.NoError(t, store.Products.SetCampaignPrice(ctx, 1, decimal.NewFromInt(80)))

	product, err := store.Products.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, product.IsCampaign)
	require.True(t, product.CampaignPrice.Valid)
	assert.True(t, decimal.NewFromInt(80).Equal(product.CampaignPrice.Decimal))

	err = store.Products.SetCampaignPrice(ctx, 42, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_GetCategoriesAndExists(t *testing.T) {
	db := testdb.Open(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	testdb.SeedProduct(t, db, 2, "Laptop", "electronics", "1500")
	testdb.SeedProduct(t, db, 3, "Lamp", "home", "30")
	store := NewStore(db, Options{})
	ctx := context.Background()

	categories, err := store.Products.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "home"}, categories)

	ok, err := store.Products.Exists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Products.Exists(ctx, 20)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepository_GetByIDs(t *testing.T) {
	db := testdb.Open(t)
	testdb.SeedProduct(t, db, 1, "Phone", "electronics", "100")
	testdb.SeedProduct(t, db, 2, "Laptop", "electronics", "1500")
	store := NewStore(db, Options{})

	products, err := store.Products.GetByIDs(context.Background(), []uint{2, 5})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Laptop", products[0].Title)

	none, err := store.Products.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

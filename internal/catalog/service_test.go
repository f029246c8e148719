package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/db/types"
	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:catalogtest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  item_code TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  pack_size TEXT NOT NULL DEFAULT '',
  category_code TEXT NOT NULL DEFAULT '',
  category_name TEXT NOT NULL DEFAULT '',
  unit_price NUMERIC NOT NULL,
  price_history TEXT NOT NULL,
  first_seen DATETIME NOT NULL,
  last_seen DATETIME NOT NULL,
  order_count INTEGER NOT NULL DEFAULT 0,
  programs TEXT NOT NULL,
  tags TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_date DATETIME NOT NULL,
  delivery_date DATETIME,
  status TEXT NOT NULL DEFAULT 'draft',
  total_estimate NUMERIC NOT NULL DEFAULT 0,
  actual_total NUMERIC,
  notes TEXT NOT NULL DEFAULT '',
  created_by TEXT NOT NULL DEFAULT '',
  submitted_date DATETIME,
  confirmation_number TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  programs TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{products, orders, orderItems} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	for _, table := range []string{"order_items", "orders", "products"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), nil, 50, 20)
	require.NoError(t, err)
	return svc
}

func sightingInput(itemCode, description string, price string, observed time.Time) UpsertInput {
	return UpsertInput{
		ItemCode:     itemCode,
		Description:  description,
		Brand:        "PACKER",
		PackSize:     "1/40 LB",
		Category:     "pr",
		UnitPrice:    decimal.RequireFromString(price),
		ObservedDate: observed,
	}
}

func TestUpsertCreatesProductOnFirstSighting(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	observed := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	product, created, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", observed))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "582271", product.ItemCode)
	assert.Equal(t, 1, product.OrderCount)
	assert.Equal(t, "Produce", product.CategoryName)
	assert.True(t, product.IsActive)
	require.Len(t, product.PriceHistory, 1)
	assert.True(t, product.PriceHistory[0].Price.Equal(decimal.RequireFromString("46.57")))
	assert.True(t, product.FirstSeen.Equal(observed))
	assert.True(t, product.LastSeen.Equal(observed))
}

func TestUpsertSamePriceAppendsNoHistory(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	first := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 7)
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", first))
	require.NoError(t, err)

	product, created, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", second))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, product.OrderCount)
	assert.True(t, product.LastSeen.Equal(second))
	assert.Len(t, product.PriceHistory, 1)
}

func TestUpsertPriceChangeAppendsHistory(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	first := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 14)
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", first))
	require.NoError(t, err)

	product, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "48.00", second))
	require.NoError(t, err)
	assert.Equal(t, 2, product.OrderCount)
	require.Len(t, product.PriceHistory, 2)
	assert.True(t, product.UnitPrice.Equal(decimal.RequireFromString("48.00")))
	assert.True(t, product.PriceHistory[1].Price.Equal(decimal.RequireFromString("48.00")))

	reloaded, err := svc.Find(ctx, "582271")
	require.NoError(t, err)
	assert.Len(t, reloaded.PriceHistory, 2)
	assert.Equal(t, 2, reloaded.OrderCount)
}

func TestUpsertStaleSightingKeepsHistory(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	current := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	stale := current.AddDate(0, 0, -30)
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "48.00", current))
	require.NoError(t, err)

	product, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "", "46.57", stale))
	require.NoError(t, err)
	assert.Equal(t, 2, product.OrderCount)
	assert.True(t, product.LastSeen.Equal(current))
	assert.Len(t, product.PriceHistory, 1)
	assert.True(t, product.UnitPrice.Equal(decimal.RequireFromString("48.00")))
	assert.Equal(t, "APPLE GRANNY SMITH", product.Description)
}

func TestUpsertRejectsBadInput(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	observed := time.Now().UTC()

	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("  ", "MISSING CODE", "10.00", observed))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidKey, pkgerrors.As(err).Code())

	_, _, err = svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("100200", "FREE APPLES", "0", observed))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidPrice, pkgerrors.As(err).Code())

	_, _, err = svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("100200", "REFUND APPLES", "-3.50", observed))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidPrice, pkgerrors.As(err).Code())
}

func TestDeactivateReactivateIdempotent(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", time.Now().UTC()))
	require.NoError(t, err)

	dto, err := svc.Deactivate(ctx, "582271")
	require.NoError(t, err)
	assert.False(t, dto.IsActive)

	dto, err = svc.Deactivate(ctx, "582271")
	require.NoError(t, err)
	assert.False(t, dto.IsActive)
	assert.Len(t, dto.PriceHistory, 1)

	dto, err = svc.Reactivate(ctx, "582271")
	require.NoError(t, err)
	assert.True(t, dto.IsActive)

	_, err = svc.Deactivate(ctx, "999999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSearchFiltersAndOrders(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", base))
	require.NoError(t, err)
	_, _, err = svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", base.AddDate(0, 0, 7)))
	require.NoError(t, err)
	_, _, err = svc.UpsertFromInvoiceLine(ctx, nil, UpsertInput{
		ItemCode:     "710533",
		Description:  "MILK 2% GALLON",
		Category:     "dy",
		UnitPrice:    decimal.RequireFromString("21.10"),
		ObservedDate: base,
	})
	require.NoError(t, err)

	results, err := svc.Search(ctx, SearchInput{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "582271", results[0].ItemCode)

	results, err = svc.Search(ctx, SearchInput{Category: "dy"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "710533", results[0].ItemCode)

	results, err = svc.Search(ctx, SearchInput{Query: "granny"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "582271", results[0].ItemCode)

	_, err = svc.Deactivate(ctx, "710533")
	require.NoError(t, err)
	results, err = svc.Search(ctx, SearchInput{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCategorySummary(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	observed := time.Now().UTC()
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "40.00", observed))
	require.NoError(t, err)
	_, _, err = svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582272", "APPLE GALA", "50.00", observed))
	require.NoError(t, err)

	summary, err := svc.CategorySummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "PR", summary[0].Category)
	assert.Equal(t, "Produce", summary[0].CategoryName)
	assert.Equal(t, 2, summary[0].ProductCount)
	assert.True(t, summary[0].AvgPrice.Equal(decimal.RequireFromString("45")))
}

func TestListFrequent(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582272", "APPLE GALA", "44.00", base))
	require.NoError(t, err)

	frequent, err := svc.ListFrequent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, frequent, 1)
	assert.Equal(t, "582271", frequent[0].ItemCode)
	assert.Equal(t, 3, frequent[0].OrderCount)
}

func TestDeleteProductRefusesWhenReferenced(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", time.Now().UTC()))
	require.NoError(t, err)

	order := models.Order{ID: uuid.New(), Name: "Week 12", CreatedDate: time.Now().UTC(), Status: "draft"}
	require.NoError(t, db.Create(&order).Error)
	item := models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
		Programs:  types.StringList{"TD1"},
	}
	require.NoError(t, db.Create(&item).Error)

	err = svc.DeleteProduct(ctx, "582271")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	require.NoError(t, db.Delete(&models.OrderItem{}, "id = ?", item.ID).Error)
	require.NoError(t, svc.DeleteProduct(ctx, "582271"))

	_, err = svc.Find(ctx, "582271")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSetTagsReplacesAndClears(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	observed := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.UpsertFromInvoiceLine(ctx, nil, sightingInput("582271", "APPLE GRANNY SMITH", "46.57", observed))
	require.NoError(t, err)

	product, err := svc.SetTags(ctx, "582271", []string{" organic ", "fruit", "organic", "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"organic", "fruit"}, product.Tags)

	reloaded, err := svc.Find(ctx, "582271")
	require.NoError(t, err)
	assert.Equal(t, []string{"organic", "fruit"}, reloaded.Tags)

	product, err = svc.SetTags(ctx, "582271", nil)
	require.NoError(t, err)
	assert.Empty(t, product.Tags)

	_, err = svc.SetTags(ctx, "999999", []string{"fruit"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

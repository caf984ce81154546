package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func stockOf(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()
	var stock uint
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", id).Pluck("stock", &stock).Error)
	return stock
}

func TestPatchProduct_KeepsConcurrentStockDecrement(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	cat := testutil.SeedCategory(t, db, "Books")
	p := testutil.SeedProduct(t, db, cat.ID, "Go in Action", "10.00", 5)

	// a checkout selling two units lands just before the patch writes
	sold := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:sell_two", func(tx *gorm.DB) {
		if sold || tx.Statement.Table != "products" {
			return
		}
		sold = true
		err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE products SET stock = stock - 2 WHERE id = ?", p.ID).Error
		require.NoError(t, err)
	}))

	name := "Go in Action, 2nd ed."
	got, err := r.PatchProduct(context.Background(), transport.PatchProductRequest{Name: &name}, p.ID)
	require.NoError(t, err)

	assert.True(t, sold)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, uint(3), got.Stock)
	assert.Equal(t, uint(3), stockOf(t, db, p.ID))
}

func TestPatchProduct_WritesOnlySuppliedFields(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	cat := testutil.SeedCategory(t, db, "Books")
	p := testutil.SeedProduct(t, db, cat.ID, "Go in Action", "10.00", 5)
	ctx := context.Background()

	stock := uint(0)
	price := decimal.RequireFromString("12.25")
	got, err := r.PatchProduct(ctx, transport.PatchProductRequest{Stock: &stock, Price: &price}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in Action", got.Name)
	assert.Equal(t, uint(0), got.Stock)
	assert.True(t, price.Equal(got.Price))

	got, err = r.PatchProduct(ctx, transport.PatchProductRequest{}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), got.Stock)

	_, err = r.PatchProduct(ctx, transport.PatchProductRequest{Stock: &stock}, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestCartService_AddRespectsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "4.00", 3)
	ct := cart.Cart{}

	for i := 1; i <= 3; i++ {
		line, err := env.Cart.Add(ctx, ct, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i, line.Quantity)
	}

	_, err := env.Cart.Add(ctx, ct, p.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Only 0 available", fmt.Sprintf("Only %d available", se.Available))
	assert.Equal(t, 3, ct.Quantity(p.ID))

	view, err := env.Cart.View(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalItems)
	assert.True(t, decimal.NewFromInt(12).Equal(view.TotalAmount))
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Cart.Add(context.Background(), cart.Cart{}, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartService_DecreaseAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "4.00", 3)
	ct := cart.Cart{cart.Key(p.ID): 2}

	line, err := env.Cart.Decrease(ctx, ct, p.ID)
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, 1, line.Quantity)

	line, err = env.Cart.Decrease(ctx, ct, p.ID)
	require.NoError(t, err)
	assert.Nil(t, line)
	assert.True(t, ct.Empty())

	_, err = env.Cart.Decrease(ctx, ct, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ct = cart.Cart{cart.Key(p.ID): 2}
	env.Cart.Remove(ctx, ct, p.ID)
	env.Cart.Remove(ctx, ct, 999)
	assert.True(t, ct.Empty())
}

func TestCartService_ViewSkipsDeletedProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	a := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "2.50", 10)
	b := testutil.SeedProduct(t, env.DB, cat.ID, "Plate", "6.00", 10)
	require.NoError(t, env.Repo.DeleteProduct(ctx, b.ID))

	ct := cart.Cart{cart.Key(a.ID): 2, cart.Key(b.ID): 1}
	view, err := env.Cart.View(ctx, ct)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, a.ID, view.Items[0].ProductID)
	assert.True(t, decimal.NewFromInt(5).Equal(view.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(5).Equal(view.TotalAmount))
	assert.Equal(t, 2, view.TotalItems)
}

func TestCartService_DecreaseDropsDeletedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "4.00", 3)
	require.NoError(t, env.Repo.DeleteProduct(ctx, p.ID))
	ct := cart.Cart{cart.Key(p.ID): 3}

	line, err := env.Cart.Decrease(ctx, ct, p.ID)
	require.NoError(t, err)
	assert.Nil(t, line)
	assert.True(t, ct.Empty())
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func TestOrderService_HistoryNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "3.00", 10)
	alice := testutil.SeedUser(t, env.DB, "alice", models.RoleUser)
	bob := testutil.SeedUser(t, env.DB, "bob", models.RoleUser)

	first, err := env.Checkout.Checkout(ctx, alice.ID, cart.Cart{cart.Key(p.ID): 1}, models.PaymentCash)
	require.NoError(t, err)
	second, err := env.Checkout.Checkout(ctx, alice.ID, cart.Cart{cart.Key(p.ID): 2}, models.PaymentCard)
	require.NoError(t, err)
	_, err = env.Checkout.Checkout(ctx, bob.ID, cart.Cart{cart.Key(p.ID): 1}, models.PaymentCard)
	require.NoError(t, err)

	require.NoError(t, env.Repo.DeleteProduct(ctx, p.ID))

	orders, err := env.Orders.History(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Mug", orders[0].Items[0].Product.Name)
}

func TestOrderService_GetIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "3.00", 10)
	alice := testutil.SeedUser(t, env.DB, "alice", models.RoleUser)
	bob := testutil.SeedUser(t, env.DB, "bob", models.RoleUser)

	order, err := env.Checkout.Checkout(ctx, alice.ID, cart.Cart{cart.Key(p.ID): 1}, models.PaymentCard)
	require.NoError(t, err)

	got, err := env.Orders.Get(ctx, order.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = env.Orders.Get(ctx, order.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_UpdateStatusForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "3.00", 10)
	u := testutil.SeedUser(t, env.DB, "alice", models.RoleUser)
	order, err := env.Checkout.Checkout(ctx, u.ID, cart.Cart{cart.Key(p.ID): 1}, models.PaymentCash)
	require.NoError(t, err)

	status := func(s models.OrderStatus) *models.OrderStatus { return &s }
	pay := func(s models.PaymentStatus) *models.PaymentStatus { return &s }

	_, err = env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{Status: status(models.StatusDelivered)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{
		Status:        status(models.StatusShipped),
		PaymentStatus: pay(models.PaymentPaid),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{Status: status(models.StatusPending)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{PaymentStatus: pay(models.PaymentFailed)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{Status: status("Lost")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.Orders.UpdateStatus(ctx, 9999, transport.UpdateOrderRequest{Status: status(models.StatusShipped)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err = env.Orders.UpdateStatus(ctx, order.ID, transport.UpdateOrderRequest{Status: status(models.StatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)
}

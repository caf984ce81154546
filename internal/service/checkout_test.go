package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func stockOf(t *testing.T, env *testEnv, id uint) uint {
	t.Helper()
	var p models.Product
	require.NoError(t, env.DB.Unscoped().First(&p, id).Error)
	return p.Stock
}

func TestCheckout_CreatesOrderAndDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	a := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "10.00", 5)
	b := testutil.SeedProduct(t, env.DB, cat.ID, "Spoon", "3.50", 2)
	u := testutil.SeedUser(t, env.DB, "alice", models.RoleUser)

	ct := cart.Cart{cart.Key(a.ID): 2, cart.Key(b.ID): 1}
	order, err := env.Checkout.Checkout(ctx, u.ID, ct, models.PaymentCard)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("23.50").Equal(order.TotalPrice), order.TotalPrice.String())
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	assert.Equal(t, a.ID, order.Items[0].ProductID)
	assert.Equal(t, uint(2), order.Items[0].Quantity)
	assert.True(t, a.Price.Equal(order.Items[0].Price))

	assert.Equal(t, uint(3), stockOf(t, env, a.ID))
	assert.Equal(t, uint(1), stockOf(t, env, b.ID))

	orders, items, err := env.Repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), items)

	msgs := env.Events.Messages()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, events.TopicOrder, last.Topic)
	assert.Equal(t, "order_created", last.Event["type"])

	// the service leaves the cart to the caller
	assert.Equal(t, 3, ct.TotalItems())
}

func TestCheckout_CashStaysPending(t *testing.T) {
	env := newTestEnv(t)
	cat := testutil.SeedCategory(t, env.DB, "Books")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Novel", "7.25", 1)
	u := testutil.SeedUser(t, env.DB, "bob", models.RoleUser)

	order, err := env.Checkout.Checkout(context.Background(), u.ID, cart.Cart{cart.Key(p.ID): 1}, models.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Kitchen")
	a := testutil.SeedProduct(t, env.DB, cat.ID, "Mug", "10.00", 1)
	b := testutil.SeedProduct(t, env.DB, cat.ID, "Spoon", "3.50", 2)
	u := testutil.SeedUser(t, env.DB, "alice", models.RoleUser)

	ct := cart.Cart{cart.Key(a.ID): 1, cart.Key(b.ID): 3}
	before := ct.Clone()

	_, err := env.Checkout.Checkout(ctx, u.ID, ct, models.PaymentCard)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, b.ID, se.ProductID)
	assert.Equal(t, "Spoon", se.Name)
	assert.Equal(t, 2, se.Available)

	orders, items, err := env.Repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Equal(t, uint(1), stockOf(t, env, a.ID))
	assert.Equal(t, uint(2), stockOf(t, env, b.ID))
	assert.Equal(t, before, ct)
}

func TestCheckout_Preconditions(t *testing.T) {
	env := newTestEnv(t)
	cat := testutil.SeedCategory(t, env.DB, "Misc")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Thing", "1.00", 3)
	u := testutil.SeedUser(t, env.DB, "carol", models.RoleUser)
	full := cart.Cart{cart.Key(p.ID): 1}

	tests := []struct {
		name    string
		userID  uint
		ct      cart.Cart
		method  models.PaymentMethod
		wantErr error
	}{
		{name: "anonymous", userID: 0, ct: full, method: models.PaymentCard, wantErr: domain.ErrUnauthenticated},
		{name: "empty cart", userID: u.ID, ct: cart.Cart{}, method: models.PaymentCard, wantErr: domain.ErrEmptyCart},
		{name: "bad method", userID: u.ID, ct: full, method: "Bitcoin", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Checkout.Checkout(context.Background(), tt.userID, tt.ct, tt.method)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, uint(3), stockOf(t, env, p.ID))
}

func TestCheckout_SkipsDeletedProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, env.DB, "Misc")
	live := testutil.SeedProduct(t, env.DB, cat.ID, "Live", "2.00", 3)
	gone := testutil.SeedProduct(t, env.DB, cat.ID, "Gone", "5.00", 3)
	u := testutil.SeedUser(t, env.DB, "dave", models.RoleUser)
	require.NoError(t, env.Repo.DeleteProduct(ctx, gone.ID))

	_, err := env.Checkout.Checkout(ctx, u.ID, cart.Cart{cart.Key(gone.ID): 1}, models.PaymentUPI)
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	order, err := env.Checkout.Checkout(ctx, u.ID, cart.Cart{cart.Key(gone.ID): 1, cart.Key(live.ID): 2}, models.PaymentUPI)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, decimal.NewFromInt(4).Equal(order.TotalPrice))
	assert.Equal(t, uint(3), stockOf(t, env, gone.ID))
}

func runConcurrentCheckouts(t *testing.T, env *testEnv, productID uint, perCart, buyers int) (ok, short int) {
	t.Helper()

	users := make([]models.User, buyers)
	for i := range users {
		users[i] = testutil.SeedUser(t, env.DB, "buyer"+string(rune('a'+i)), models.RoleUser)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		start   = make(chan struct{})
		unknown []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			<-start
			_, err := env.Checkout.Checkout(context.Background(), uid, cart.Cart{cart.Key(productID): perCart}, models.PaymentCard)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				unknown = append(unknown, err)
			}
		}(u.ID)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unknown)
	return ok, short
}

func TestCheckout_ConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	cat := testutil.SeedCategory(t, env.DB, "Rare")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Last one", "99.00", 1)

	ok, short := runConcurrentCheckouts(t, env, p.ID, 1, 2)

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, uint(0), stockOf(t, env, p.ID))
}

func TestCheckout_ConcurrentAdmitsFloorOfStock(t *testing.T) {
	env := newTestEnv(t)
	cat := testutil.SeedCategory(t, env.DB, "Bulk")
	p := testutil.SeedProduct(t, env.DB, cat.ID, "Crate", "12.00", 5)

	ok, short := runConcurrentCheckouts(t, env, p.ID, 2, 6)

	assert.Equal(t, 2, ok)
	assert.Equal(t, 4, short)
	assert.Equal(t, uint(1), stockOf(t, env, p.ID))

	orders, items, err := env.Repo.CountOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), orders)
	assert.Equal(t, int64(2), items)
}

package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

type testEnv struct {
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Events   *events.Recorder
	Catalog  *CatalogService
	Cart     *CartService
	Checkout *CheckoutService
	Orders   *OrderService
	Auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	rec := &events.Recorder{}

	return &testEnv{
		DB:       db,
		Repo:     r,
		Events:   rec,
		Catalog:  &CatalogService{Repo: r, Events: rec},
		Cart:     &CartService{Repo: r, Events: rec},
		Checkout: &CheckoutService{Repo: r, Events: rec, LockTimeout: time.Second},
		Orders:   &OrderService{Repo: r, Events: rec},
		Auth: &AuthService{
			Repo:          r,
			Events:        rec,
			AccessSecret:  []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}
}

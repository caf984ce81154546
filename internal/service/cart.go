package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// CartService applies cart operations to a cart value owned by the caller.
// Callers persist the cart after a successful mutation.
type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func lineView(p models.Product, qty int) transport.LineView {
	return transport.LineView{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(qty))),
		Stock:     p.Stock,
		Image:     p.Image,
	}
}

// Add puts one more unit of the product into ct as long as the cart would
// not hold more than the current stock.
func (s *CartService) Add(ctx context.Context, ct cart.Cart, productID uint) (*transport.LineView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "product_id", productID)

	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	current := ct.Quantity(productID)
	if current >= int(p.Stock) {
		available := int(p.Stock) - current
		if available < 0 {
			available = 0
		}
		l.Warn("add_to_cart_error", "status", 409, "reason", "insufficient stock", "in_cart", current, "stock", p.Stock)
		return nil, &domain.StockError{ProductID: p.ID, Name: p.Name, Requested: current + 1, Available: available}
	}

	qty := ct.Increment(productID)
	publish(ctx, s.Events, events.TopicCart, cart.Key(productID), events.Event{
		"type":      "cart_item_added",
		"productID": productID,
		"quantity":  qty,
	})

	v := lineView(*p, qty)
	return &v, nil
}

// Decrease takes one unit off the line and drops it at zero, or at once when
// the product no longer exists. The returned line is nil once the product is
// gone from the cart.
func (s *CartService) Decrease(ctx context.Context, ct cart.Cart, productID uint) (*transport.LineView, error) {
	qty, ok := ct.Decrement(productID)
	if !ok {
		return nil, fmt.Errorf("product %d not in cart: %w", productID, domain.ErrNotFound)
	}

	publish(ctx, s.Events, events.TopicCart, cart.Key(productID), events.Event{
		"type":      "cart_item_decreased",
		"productID": productID,
		"quantity":  qty,
	})

	if qty == 0 {
		return nil, nil
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		// product deleted since it was added; the stale line goes
		ct.Remove(productID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := lineView(*p, qty)
	return &v, nil
}

func (s *CartService) Remove(ctx context.Context, ct cart.Cart, productID uint) {
	ct.Remove(productID)
	publish(ctx, s.Events, events.TopicCart, cart.Key(productID), events.Event{
		"type":      "cart_item_removed",
		"productID": productID,
	})
}

// View resolves the cart against live products. Lines for deleted products
// are skipped.
func (s *CartService) View(ctx context.Context, ct cart.Cart) (*transport.CartView, error) {
	lines := ct.Lines()
	ids := make([]uint, 0, len(lines))
	for _, ln := range lines {
		ids = append(ids, ln.ProductID)
	}

	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &transport.CartView{Items: make([]transport.LineView, 0, len(lines)), TotalAmount: decimal.Zero}
	for _, ln := range lines {
		p, ok := products[ln.ProductID]
		if !ok {
			continue
		}
		lv := lineView(p, ln.Quantity)
		view.Items = append(view.Items, lv)
		view.TotalAmount = view.TotalAmount.Add(lv.Subtotal)
		view.TotalItems += ln.Quantity
	}
	return view, nil
}

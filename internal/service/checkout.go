package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CheckoutService struct {
	Repo        *repo.GormRepo
	Events      events.Publisher
	LockTimeout time.Duration
}

// paymentStatusFor simulates the gateway: card and UPI settle immediately,
// cash is collected on delivery.
func paymentStatusFor(m models.PaymentMethod) models.PaymentStatus {
	switch m {
	case models.PaymentCard, models.PaymentUPI:
		return models.PaymentPaid
	default:
		return models.PaymentPending
	}
}

// Checkout converts ct into an order for userID. The cart is not modified;
// the caller clears it after a nil error.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, ct cart.Cart, method models.PaymentMethod) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	if userID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	if ct.Empty() {
		return nil, domain.ErrEmptyCart
	}
	if !method.Valid() {
		return nil, fmt.Errorf("payment method %q: %w", method, domain.ErrValidation)
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.StatusPending,
		PaymentMethod: method,
		PaymentStatus: paymentStatusFor(method),
	}

	if err := s.Repo.PlaceOrder(ctx, order, ct.Lines(), s.LockTimeout); err != nil {
		var se *domain.StockError
		switch {
		case errors.As(err, &se):
			l.Warn("checkout_error", "status", 409, "reason", "insufficient stock", "product_id", se.ProductID, "requested", se.Requested, "available", se.Available)
		case errors.Is(err, domain.ErrTransactionConflict):
			l.Warn("checkout_error", "status", 503, "reason", "lock conflict", "error", err)
		case errors.Is(err, domain.ErrEmptyCart):
			l.Info("checkout_error", "status", 400, "reason", "no purchasable lines")
		default:
			l.Error("checkout_error", "status", 500, "error", err)
		}
		return nil, err
	}

	items := make([]events.Event, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, events.Event{
			"productID": it.ProductID,
			"quantity":  it.Quantity,
			"price":     it.Price.String(),
		})
	}
	publish(ctx, s.Events, events.TopicOrder, strconv.FormatUint(uint64(order.ID), 10), events.Event{
		"type":          "order_created",
		"orderID":       order.ID,
		"userID":        userID,
		"total":         order.TotalPrice.String(),
		"paymentMethod": string(order.PaymentMethod),
		"paymentStatus": string(order.PaymentStatus),
		"items":         items,
	})

	l.Info("checkout_success", "order_id", order.ID, "total", order.TotalPrice.String())
	return order, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

var statusRank = map[models.OrderStatus]int{
	models.StatusPending:   0,
	models.StatusShipped:   1,
	models.StatusDelivered: 2,
}

func (s *OrderService) History(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// Get returns the order only to its owner. Anyone else gets ErrNotFound.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	return s.Repo.GetOrderForUser(ctx, orderID, userID)
}

func checkStatus(from, to models.OrderStatus) error {
	rt, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("status %q: %w", to, domain.ErrValidation)
	}
	if rt == statusRank[from]+1 || to == from {
		return nil
	}
	return fmt.Errorf("status %s -> %s: %w", from, to, domain.ErrConflict)
}

func checkPayment(from, to models.PaymentStatus) error {
	switch to {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
	default:
		return fmt.Errorf("payment status %q: %w", to, domain.ErrValidation)
	}
	if to == from || from == models.PaymentPending {
		return nil
	}
	return fmt.Errorf("payment status %s -> %s: %w", from, to, domain.ErrConflict)
}

// UpdateStatus moves an order forward. Status only advances one step at a
// time and payment leaves Pending at most once.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	if req.Status == nil && req.PaymentStatus == nil {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrValidation)
	}

	order, err := s.Repo.UpdateOrder(ctx, orderID, func(o *models.Order) error {
		if req.Status != nil {
			if err := checkStatus(o.Status, *req.Status); err != nil {
				return err
			}
			o.Status = *req.Status
		}
		if req.PaymentStatus != nil {
			if err := checkPayment(o.PaymentStatus, *req.PaymentStatus); err != nil {
				return err
			}
			o.PaymentStatus = *req.PaymentStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrder, strconv.FormatUint(uint64(order.ID), 10), events.Event{
		"type":          "order_updated",
		"orderID":       order.ID,
		"status":        string(order.Status),
		"paymentStatus": string(order.PaymentStatus),
	})
	return order, nil
}

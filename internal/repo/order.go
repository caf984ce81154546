package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

// PlaceOrder turns cart lines into order. In one transaction it locks every
// product row in ascending id order, checks stock against the locked value,
// inserts the order and its items with price snapshots and decrements stock.
// Lines whose product no longer exists are dropped. Nothing is written when
// any line is short.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, lines []cart.Line, lockTimeout time.Duration) error {
	lines = append([]cart.Line(nil), lines...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		items := make([]models.OrderItem, 0, len(lines))
		total := decimal.Zero
		for _, ln := range lines {
			var p models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, ln.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if int(p.Stock) < ln.Quantity {
				return &domain.StockError{
					ProductID: p.ID,
					Name:      p.Name,
					Requested: ln.Quantity,
					Available: int(p.Stock),
				}
			}
			item := models.OrderItem{ProductID: p.ID, Quantity: uint(ln.Quantity), Price: p.Price}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		order.TotalPrice = total
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}

		for _, it := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return &domain.StockError{ProductID: it.ProductID, Requested: int(it.Quantity)}
			}
		}

		order.Items = items
		return nil
	})
	return classify(err)
}

func (r *GormRepo) withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var orders []models.Order
	if err := r.withItems(q).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrderForUser(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	var order models.Order
	q := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID)
	if err := r.withItems(q).First(&order).Error; err != nil {
		return nil, classify(err)
	}
	return &order, nil
}

// UpdateOrder locks the order row and lets fn mutate status fields.
func (r *GormRepo) UpdateOrder(ctx context.Context, orderID uint, fn func(o *models.Order) error) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			return err
		}
		if err := fn(&order); err != nil {
			return err
		}
		return tx.Model(&order).Select("status", "payment_status").Updates(map[string]any{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		}).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return &order, nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (orders, items int64, err error) {
	if err = r.DB.WithContext(ctx).Model(&models.Order{}).Count(&orders).Error; err != nil {
		return 0, 0, err
	}
	if err = r.DB.WithContext(ctx).Model(&models.OrderItem{}).Count(&items).Error; err != nil {
		return 0, 0, err
	}
	return orders, items, nil
}

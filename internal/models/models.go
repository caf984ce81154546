package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name string `gorm:"uniqueIndex;not null"      json:"name"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name        string          `gorm:"not null"                        json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"price"`
	Description string          `gorm:"not null;default:''"             json:"description"`
	Image       string          `json:"image"`
	Stock       uint            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  uint            `gorm:"index;not null"                  json:"category_id"`
	Category    Category        `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"                           json:"-"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Profile      Profile   `gorm:"constraint:OnDelete:CASCADE" json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID      uint   `gorm:"primaryKey"          json:"id"`
	UserID  uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"        json:"id"`
	Role      string `gorm:"not null"          json:"role"`
	Token     string `gorm:"unique;not null"   json:"-"`
	UserID    uint   `gorm:"index;not null"    json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"          json:"expires_at"`
	Revoked   bool   `gorm:"default:false"     json:"revoked"`
}

type Order struct {
	ID            uint            `gorm:"primaryKey"                  json:"id"`
	UserID        uint            `gorm:"index;not null"              json:"user_id"`
	User          User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status        OrderStatus     `gorm:"not null;default:Pending"    json:"status"`
	PaymentMethod PaymentMethod   `gorm:"not null;default:Cash"       json:"payment_method"`
	PaymentStatus PaymentStatus   `gorm:"not null;default:Pending"    json:"payment_status"`
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"index"                       json:"created_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Product   Product         `json:"product"`
	Quantity  uint            `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Session backs the database session store.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func All() []any {
	return []any{
		&Category{}, &Product{}, &User{}, &Profile{}, &RefreshToken{},
		&Order{}, &OrderItem{}, &Session{},
	}
}

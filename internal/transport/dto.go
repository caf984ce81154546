package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/util"
)

type LineView struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Stock     uint            `json:"stock"`
	Image     string          `json:"image,omitempty"`
}

type CartView struct {
	Items       []LineView      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

type CartActionResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Cart    *CartView `json:"cart"`
	Item    *LineView `json:"item"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta util.Page        `json:"meta"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next"     form:"next"`
}

type RegisterRequest struct {
	Username  string `json:"username"  form:"username"`
	Email     string `json:"email"     form:"email"`
	Password  string `json:"password"  form:"password"`
	Password2 string `json:"password2" form:"password2"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

type CheckoutResponse struct {
	OrderID       uint            `json:"order_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentStatus string          `json:"payment_status"`
	Redirect      string          `json:"redirect"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	Image       string          `json:"image"`
	CategoryID  uint            `json:"category_id"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
	Image       *string          `json:"image"`
	CategoryID  *uint            `json:"category_id"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" form:"name"`
}

type UpdateOrderRequest struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
}

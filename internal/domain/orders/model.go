package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status del envío de un pedido.
// @Enum pending, shipped, delivered
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

type Item struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Order es una compra confirmada en la tienda.
type Order struct {
	ID         string
	UserID     string
	CheckoutID string
	Date       string // YYYY-MM-DD
	Status     Status
	Items      []Item
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
}

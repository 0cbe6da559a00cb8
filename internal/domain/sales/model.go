package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel por el que se realizó la venta.
type Channel string

const (
	ChannelInStore Channel = "presencial"
	ChannelOnline  Channel = "online"
)

// ItemCategory distingue productos de servicios clínicos.
// @Enum product, service
type ItemCategory string

const (
	ItemProduct ItemCategory = "product"
	ItemService ItemCategory = "service"
)

func (c ItemCategory) Valid() bool {
	return c == ItemProduct || c == ItemService
}

type Item struct {
	ID       string
	Name     string
	Quantity int
	Price    decimal.Decimal
	Category ItemCategory
}

// Sale es un registro del libro de ventas de mostrador.
type Sale struct {
	ID        string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	Channel   Channel
	Client    string
	Items     []Item
	Total     decimal.Decimal
	CreatedAt time.Time
}

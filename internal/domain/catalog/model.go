package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category agrupa productos en la tienda.
// @Enum food, accessories, medicines
type Category string

const (
	CategoryFood        Category = "food"
	CategoryAccessories Category = "accessories"
	CategoryMedicines   Category = "medicines"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryAccessories, CategoryMedicines:
		return true
	}
	return false
}

// Product es un artículo del inventario, visible en la tienda.
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       decimal.Decimal
	Stock       int
	Brand       string
	Image       string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockLine es una cantidad a descontar o reponer de un producto.
type StockLine struct {
	ProductID string
	Quantity  int
}

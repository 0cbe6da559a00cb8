package cart

import (
	"laikavet/internal/domain/catalog"
	"laikavet/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// Line es un producto (snapshot) más la cantidad pedida.
// Invariante: 1 <= Quantity <= Stock.
type Line struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Stock     int              `json:"stock"`
	Image     string           `json:"image"`
	Brand     string           `json:"brand"`
	Category  catalog.Category `json:"category"`
	Quantity  int              `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return pricing.LineTotal(l.Price, l.Quantity)
}

// Cart es el carrito de un usuario. Las líneas mantienen el orden de alta
// y hay a lo sumo una por producto.
type Cart struct {
	UserID string `json:"user_id"`
	Lines  []Line `json:"lines"`
}

func New(userID string) Cart {
	return Cart{UserID: userID, Lines: []Line{}}
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line devuelve la línea de un producto, si existe.
func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Add agrega una unidad del producto. Sin stock, o si la línea ya está en
// el tope de stock, no hace nada. Devuelve si el carrito cambió.
func (c *Cart) Add(p catalog.Product) bool {
	i := c.index(p.ID)
	if i < 0 {
		if p.Stock <= 0 {
			return false
		}
		l := snapshot(p)
		l.Quantity = 1
		c.Lines = append(c.Lines, l)
		return true
	}

	before := c.Lines[i]
	c.Refresh(p)
	if i = c.index(p.ID); i < 0 {
		// el producto se quedó sin stock
		return true
	}
	if c.Lines[i].Quantity >= c.Lines[i].Stock {
		return c.Lines[i].Quantity != before.Quantity
	}
	c.Lines[i].Quantity++
	return true
}

// UpdateQuantity fija la cantidad. q < 1 elimina la línea y q > stock se
// recorta al stock. Un producto que no está en el carrito se ignora.
func (c *Cart) UpdateQuantity(productID string, q int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if q < 1 {
		return c.Remove(productID)
	}
	if q > c.Lines[i].Stock {
		q = c.Lines[i].Stock
	}
	if c.Lines[i].Quantity == q {
		return false
	}
	c.Lines[i].Quantity = q
	return true
}

func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Subtract descuenta las cantidades indicadas. Las líneas que llegan a cero
// se eliminan y los productos que no figuran en lines no se tocan.
func (c *Cart) Subtract(lines []catalog.StockLine) bool {
	changed := false
	for _, sl := range lines {
		i := c.index(sl.ProductID)
		if i < 0 || sl.Quantity < 1 {
			continue
		}
		changed = true
		if c.Lines[i].Quantity <= sl.Quantity {
			c.Remove(sl.ProductID)
			continue
		}
		c.Lines[i].Quantity -= sl.Quantity
	}
	return changed
}

// Refresh actualiza el snapshot de un producto con datos del catálogo y
// vuelve a aplicar el tope de stock. Sin stock, la línea se elimina.
func (c *Cart) Refresh(p catalog.Product) {
	i := c.index(p.ID)
	if i < 0 {
		return
	}
	l := refreshLine(c.Lines[i], p)
	if l.Stock <= 0 {
		c.Remove(p.ID)
		return
	}
	if l.Quantity > l.Stock {
		l.Quantity = l.Stock
	}
	c.Lines[i] = l
}

// Total es la suma de precio x cantidad de todas las líneas.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count es la suma de cantidades.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Summary aplica impuestos al total del carrito.
func (c *Cart) Summary() pricing.Summary {
	return pricing.Summarize(c.Total())
}

// StockLines traduce el carrito a las cantidades a descontar del inventario.
func (c *Cart) StockLines() []catalog.StockLine {
	out := make([]catalog.StockLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, catalog.StockLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func snapshot(p catalog.Product) Line {
	return Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Image:     p.Image,
		Brand:     p.Brand,
		Category:  p.Category,
	}
}

func refreshLine(l Line, p catalog.Product) Line {
	fresh := snapshot(p)
	fresh.Quantity = l.Quantity
	return fresh
}

package pricing

import "github.com/shopspring/decimal"

// TaxRate es el IVA aplicado a todas las compras.
var TaxRate = decimal.RequireFromString("0.21")

// Summary es el desglose de un importe con impuestos.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summarize calcula impuesto y total a partir del subtotal.
// El impuesto se redondea a centavos (half-up) y total = subtotal + impuesto.
func Summarize(subtotal decimal.Decimal) Summary {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// LineTotal es precio x cantidad.
func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Format serializa un importe con dos decimales fijos.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

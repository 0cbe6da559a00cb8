package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDeclined es un rechazo terminal: reintentar no cambia el resultado.
	ErrDeclined = errors.New("payment declined")
	// ErrTransient indica que el cobro puede reintentarse.
	ErrTransient = errors.New("payment temporarily unavailable")
)

const DefaultCurrency = "USD"

// Charge es el cobro que se envía a liquidar.
type Charge struct {
	CheckoutID string
	Amount     decimal.Decimal
	Currency   string
}

// Settlement es el comprobante de un cobro exitoso.
type Settlement struct {
	Reference string
	SettledAt time.Time
}

// Gateway liquida un cobro. Debe respetar ctx: si se cancela antes de
// completar, devuelve ctx.Err() y el cobro no se considera realizado.
type Gateway interface {
	Settle(ctx context.Context, c Charge) (Settlement, error)
}

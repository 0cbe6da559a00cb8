package checkout

import (
	"time"

	"laikavet/internal/domain/cart"
	"laikavet/internal/domain/pricing"
)

// Step del flujo de compra.
// @Enum shipping, payment, success, failed
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepSuccess  Step = "success"
	StepFailed   Step = "failed"
)

// Address es el domicilio de envío.
type Address struct {
	FirstName string
	LastName  string
	Street    string
	City      string
	Zip       string
}

// Failure describe el último intento de cobro fallido.
type Failure struct {
	Reason    string
	Retryable bool
}

// Session es un checkout en curso de un usuario.
type Session struct {
	ID       string
	UserID   string
	Step     Step
	Shipping *Address

	// Lines y Summary se congelan al confirmar el pago.
	Lines   []cart.Line
	Summary pricing.Summary

	OrderID          string
	PaymentReference string
	Failure          *Failure

	CreatedAt time.Time
	UpdatedAt time.Time
}

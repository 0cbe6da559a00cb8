// Package simulated liquida cobros localmente tras una latencia fija.
package simulated

import (
	"context"
	"time"

	"laikavet/internal/ports/payments"

	"github.com/google/uuid"
)

const DefaultLatency = 2 * time.Second

// Outcome decide el resultado de un cobro; nil = aprobado.
type Outcome func(c payments.Charge) error

type Gateway struct {
	latency time.Duration
	outcome Outcome
	now     func() time.Time
}

func New(latency time.Duration, outcome Outcome) *Gateway {
	if latency < 0 {
		latency = 0
	}
	return &Gateway{latency: latency, outcome: outcome, now: time.Now}
}

func (g *Gateway) Settle(ctx context.Context, c payments.Charge) (payments.Settlement, error) {
	if err := ctx.Err(); err != nil {
		return payments.Settlement{}, err
	}

	t := time.NewTimer(g.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return payments.Settlement{}, ctx.Err()
	case <-t.C:
	}

	if g.outcome != nil {
		if err := g.outcome(c); err != nil {
			return payments.Settlement{}, err
		}
	}
	return payments.Settlement{
		Reference: "sim_" + uuid.NewString(),
		SettledAt: g.now(),
	}, nil
}

// DeclineAbove rechaza montos mayores a limit. Útil para demos.
func DeclineAbove(limit float64) Outcome {
	return func(c payments.Charge) error {
		if c.Amount.InexactFloat64() > limit {
			return payments.ErrDeclined
		}
		return nil
	}
}

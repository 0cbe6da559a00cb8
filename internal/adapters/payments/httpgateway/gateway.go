// Package httpgateway liquida cobros contra un gateway HTTP externo.
package httpgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"laikavet/internal/platform/httpclient"
	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/payments"

	"github.com/sony/gobreaker/v2"
)

const chargesPath = "/v1/charges"

type chargeRequest struct {
	CheckoutID string `json:"checkout_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

type chargeResponse struct {
	Status    string `json:"status"` // succeeded | declined
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

type Gateway struct {
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker[payments.Settlement]
	now     func() time.Time
	log     logger.Logger
}

// New arma el gateway con reintentos (httpclient.DefaultRetry) y un
// circuit breaker que abre tras 5 fallas transitorias seguidas.
func New(baseURL string, timeout time.Duration, log logger.Logger) (*Gateway, error) {
	client, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if client.BaseURL == "" {
		return nil, errors.New("httpgateway: base url required")
	}
	client.Retry = httpclient.DefaultRetry
	return newGateway(client, log), nil
}

func newGateway(client *httpclient.Client, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(map[string]any{"module": "payments"})

	g := &Gateway{client: client, now: time.Now, log: log}
	g.breaker = gobreaker.NewCircuitBreaker[payments.Settlement](gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// un rechazo o una cancelación no dicen nada de la salud del gateway
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, payments.ErrDeclined) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
	return g
}

func (g *Gateway) Settle(ctx context.Context, c payments.Charge) (payments.Settlement, error) {
	if err := ctx.Err(); err != nil {
		return payments.Settlement{}, err
	}

	s, err := g.breaker.Execute(func() (payments.Settlement, error) {
		return g.charge(ctx, c)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return payments.Settlement{}, fmt.Errorf("%w: %v", payments.ErrTransient, err)
	}
	return s, err
}

func (g *Gateway) charge(ctx context.Context, c payments.Charge) (payments.Settlement, error) {
	currency := c.Currency
	if currency == "" {
		currency = payments.DefaultCurrency
	}

	var out chargeResponse
	err := g.client.DoJSON(ctx, http.MethodPost, chargesPath,
		map[string]string{"Idempotency-Key": c.CheckoutID},
		chargeRequest{
			CheckoutID: c.CheckoutID,
			Amount:     c.Amount.StringFixed(2),
			Currency:   currency,
		},
		&out,
	)
	if err != nil {
		return payments.Settlement{}, g.classify(ctx, c, err)
	}

	switch strings.ToLower(out.Status) {
	case "succeeded":
		return payments.Settlement{Reference: out.Reference, SettledAt: g.now()}, nil
	case "declined":
		return payments.Settlement{}, declined(out.Reason)
	default:
		return payments.Settlement{}, fmt.Errorf("%w: unexpected status %q", payments.ErrTransient, out.Status)
	}
}

// classify mapea errores HTTP a la taxonomía de pagos. Con el contexto
// cancelado se devuelve ctx.Err() tal cual.
func (g *Gateway) classify(ctx context.Context, c payments.Charge, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
			return declined(he.Body)
		}
	}

	g.log.Warn("payment gateway failure", map[string]any{
		"checkout_id": c.CheckoutID,
		"transient":   httpclient.IsTransient(err),
		"err":         err,
	})
	return fmt.Errorf("%w: %v", payments.ErrTransient, err)
}

func declined(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return payments.ErrDeclined
	}
	return fmt.Errorf("%w: %s", payments.ErrDeclined, reason)
}

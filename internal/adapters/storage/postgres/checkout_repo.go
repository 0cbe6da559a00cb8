package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"laikavet/internal/domain/cart"
	"laikavet/internal/domain/checkout"
)

type CheckoutRepo struct {
	db *sql.DB
}

func NewCheckoutRepo(db *sql.DB) *CheckoutRepo {
	return &CheckoutRepo{db: db}
}

type addressRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type failureRow struct {
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable"`
}

const checkoutColumns = `
	id, user_id, step, shipping, lines, subtotal, tax, total,
	order_id, payment_reference, failure, created_at, updated_at`

func (r *CheckoutRepo) Insert(ctx context.Context, s checkout.Session) error {
	args, err := checkoutArgs(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (`+checkoutColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, args...)
	if err != nil {
		return fmt.Errorf("checkout: insert: %w", err)
	}
	return nil
}

func (r *CheckoutRepo) Get(ctx context.Context, id string) (checkout.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+checkoutColumns+` FROM checkout_sessions WHERE id = $1`, id)

	var s checkout.Session
	var shipping, lines, failure []byte
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Step, &shipping, &lines,
		&s.Summary.Subtotal, &s.Summary.Tax, &s.Summary.Total,
		&s.OrderID, &s.PaymentReference, &failure, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return checkout.Session{}, checkout.ErrNotFound
		}
		return checkout.Session{}, err
	}

	if err := json.Unmarshal(lines, &s.Lines); err != nil {
		return checkout.Session{}, fmt.Errorf("checkout: unmarshal lines: %w", err)
	}
	if len(shipping) > 0 {
		var a addressRow
		if err := json.Unmarshal(shipping, &a); err != nil {
			return checkout.Session{}, fmt.Errorf("checkout: unmarshal shipping: %w", err)
		}
		addr := checkout.Address(a)
		s.Shipping = &addr
	}
	if len(failure) > 0 {
		var f failureRow
		if err := json.Unmarshal(failure, &f); err != nil {
			return checkout.Session{}, fmt.Errorf("checkout: unmarshal failure: %w", err)
		}
		fail := checkout.Failure(f)
		s.Failure = &fail
	}
	return s, nil
}

func (r *CheckoutRepo) Update(ctx context.Context, s checkout.Session) error {
	args, err := checkoutArgs(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE checkout_sessions
		SET user_id = $2, step = $3, shipping = $4, lines = $5,
		    subtotal = $6, tax = $7, total = $8,
		    order_id = $9, payment_reference = $10, failure = $11,
		    created_at = $12, updated_at = $13
		WHERE id = $1
	`, args...)
	if err != nil {
		return fmt.Errorf("checkout: update: %w", err)
	}
	return notFoundIfNone(res, checkout.ErrNotFound)
}

func checkoutArgs(s checkout.Session) ([]any, error) {
	lines := s.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("checkout: marshal lines: %w", err)
	}

	// NULL en la columna JSONB cuando no hay dato
	var shipping, failure any
	if s.Shipping != nil {
		b, err := json.Marshal(addressRow(*s.Shipping))
		if err != nil {
			return nil, err
		}
		shipping = b
	}
	if s.Failure != nil {
		b, err := json.Marshal(failureRow(*s.Failure))
		if err != nil {
			return nil, err
		}
		failure = b
	}

	return []any{
		s.ID, s.UserID, s.Step, shipping, linesJSON,
		s.Summary.Subtotal, s.Summary.Tax, s.Summary.Total,
		s.OrderID, s.PaymentReference, failure, s.CreatedAt, s.UpdatedAt,
	}, nil
}

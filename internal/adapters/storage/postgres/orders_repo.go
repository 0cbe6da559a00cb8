package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"laikavet/internal/domain/orders"

	"github.com/shopspring/decimal"
)

type OrdersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// orderItemRow es el formato de cada ítem dentro de la columna JSONB.
type orderItemRow struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (r *OrdersRepo) Insert(ctx context.Context, o orders.Order) error {
	rows := make([]orderItemRow, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, orderItemRow(it))
	}
	itemsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("orders: marshal items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, checkout_id, date, status, items, subtotal, tax, total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, o.ID, o.UserID, o.CheckoutID, o.Date, o.Status, itemsJSON, o.Subtotal, o.Tax, o.Total, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

func (r *OrdersRepo) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, checkout_id, date, status, items, subtotal, tax, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.Order, 0)
	for rows.Next() {
		var o orders.Order
		var date time.Time
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.UserID, &o.CheckoutID, &date, &o.Status, &itemsJSON, &o.Subtotal, &o.Tax, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		var items []orderItemRow
		if err := json.Unmarshal(itemsJSON, &items); err != nil {
			return nil, fmt.Errorf("orders: unmarshal items: %w", err)
		}
		o.Date = date.Format(dateLayout)
		o.Items = make([]orders.Item, 0, len(items))
		for _, it := range items {
			o.Items = append(o.Items, orders.Item(it))
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

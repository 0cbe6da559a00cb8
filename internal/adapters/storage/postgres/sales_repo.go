package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"laikavet/internal/domain/sales"

	"github.com/shopspring/decimal"
)

type SalesRepo struct {
	db *sql.DB
}

func NewSalesRepo(db *sql.DB) *SalesRepo {
	return &SalesRepo{db: db}
}

type saleItemRow struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Quantity int                `json:"quantity"`
	Price    decimal.Decimal    `json:"price"`
	Category sales.ItemCategory `json:"category"`
}

func (r *SalesRepo) Insert(ctx context.Context, s sales.Sale) error {
	rows := make([]saleItemRow, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, saleItemRow(it))
	}
	itemsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("sales: marshal items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sales (id, date, time, channel, client, items, total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.Date, s.Time, s.Channel, s.Client, itemsJSON, s.Total, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("sales: insert: %w", err)
	}
	return nil
}

func (r *SalesRepo) List(ctx context.Context) ([]sales.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, time, channel, client, items, total, created_at
		FROM sales
		ORDER BY date ASC, time ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sales.Sale, 0)
	for rows.Next() {
		var s sales.Sale
		var date time.Time
		var itemsJSON []byte
		if err := rows.Scan(&s.ID, &date, &s.Time, &s.Channel, &s.Client, &itemsJSON, &s.Total, &s.CreatedAt); err != nil {
			return nil, err
		}
		var items []saleItemRow
		if err := json.Unmarshal(itemsJSON, &items); err != nil {
			return nil, fmt.Errorf("sales: unmarshal items: %w", err)
		}
		s.Date = date.Format(dateLayout)
		s.Items = make([]sales.Item, 0, len(items))
		for _, it := range items {
			s.Items = append(s.Items, sales.Item(it))
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

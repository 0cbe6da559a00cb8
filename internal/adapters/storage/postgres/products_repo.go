package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"laikavet/internal/domain/catalog"
)

type ProductsRepo struct {
	db *sql.DB
}

func NewProductsRepo(db *sql.DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

const productColumns = `id, name, category, price, stock, brand, image, description, created_at, updated_at`

func (r *ProductsRepo) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductsRepo) Get(ctx context.Context, id string) (catalog.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductsRepo) Insert(ctx context.Context, p catalog.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, p.ID, p.Name, p.Category, p.Price, p.Stock, p.Brand, p.Image, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	return nil
}

func (r *ProductsRepo) Update(ctx context.Context, p catalog.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, price = $4, stock = $5, brand = $6,
		    image = $7, description = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Category, p.Price, p.Stock, p.Brand, p.Image, p.Description, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	return notFoundIfNone(res, catalog.ErrNotFound)
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	return notFoundIfNone(res, catalog.ErrNotFound)
}

// AdjustStock es atómico: el WHERE impide dejar stock negativo.
func (r *ProductsRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("products: adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return catalog.ErrInsufficientStock
}

func scanProduct(s scanner) (catalog.Product, error) {
	var p catalog.Product
	if err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Brand, &p.Image, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return p, nil
}

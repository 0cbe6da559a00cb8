package catalog

import "context"

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock suma delta al stock. Si el resultado fuese negativo no
	// modifica nada y devuelve ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) error
}

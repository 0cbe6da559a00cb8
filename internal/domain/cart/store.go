package cart

import (
	"context"

	"laikavet/internal/domain/catalog"
)

// Store persiste carritos por usuario. Load devuelve un carrito vacío si
// el usuario no tiene uno guardado.
type Store interface {
	Load(ctx context.Context, userID string) (Cart, error)
	Save(ctx context.Context, c Cart) error
	Delete(ctx context.Context, userID string) error
}

// Products resuelve datos actuales de producto (precio y stock).
type Products interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

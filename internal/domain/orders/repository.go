package orders

import "context"

type Repository interface {
	Insert(ctx context.Context, o Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

package sales

import "context"

type Repository interface {
	Insert(ctx context.Context, s Sale) error
	List(ctx context.Context) ([]Sale, error)
}

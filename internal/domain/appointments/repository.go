package appointments

import "context"

type Repository interface {
	ListByDate(ctx context.Context, date string) ([]Appointment, error)

	// ListBetween devuelve los turnos con from <= date <= to (ambas YYYY-MM-DD).
	ListBetween(ctx context.Context, from, to string) ([]Appointment, error)

	Get(ctx context.Context, id string) (Appointment, error)
	Insert(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
}

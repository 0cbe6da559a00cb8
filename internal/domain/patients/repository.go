package patients

import "context"

type Repository interface {
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id string) (Patient, error)
	Insert(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error
	Delete(ctx context.Context, id string) error

	// AppendHistory agrega la entrada al frente de la historia del paciente.
	AppendHistory(ctx context.Context, patientID string, e HistoryEntry) error
}

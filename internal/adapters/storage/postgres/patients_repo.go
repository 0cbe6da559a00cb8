package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"laikavet/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

const patientColumns = `
	id, name, species, breed, age, weight, color,
	owner_name, owner_phone, owner_email, owner_address,
	created_at, updated_at`

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	index := map[string]int{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// una sola consulta para todas las historias
	hrows, err := r.db.QueryContext(ctx, `
		SELECT patient_id, `+historyColumns+`
		FROM patient_history
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()

	for hrows.Next() {
		var pid string
		var e patients.HistoryEntry
		var date time.Time
		if err := hrows.Scan(&pid, &e.ID, &date, &e.Reason, &e.Diagnosis, &e.Treatment, &e.Observations, &e.VetID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Date = date.Format(dateLayout)
		if i, ok := index[pid]; ok {
			out[i].History = append(out[i].History, e)
		}
	}
	return out, hrows.Err()
}

func (r *PatientsRepo) Get(ctx context.Context, id string) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	p, err := scanPatient(row)
	if err != nil {
		return patients.Patient{}, err
	}
	p.History, err = r.history(ctx, id)
	if err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) Insert(ctx context.Context, p patients.Patient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID, p.Name, p.Species, p.Breed, p.Age, p.Weight, p.Color,
		p.Owner.Name, p.Owner.Phone, p.Owner.Email, p.Owner.Address,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("patients: insert: %w", err)
	}

	// la historia llega más reciente primero; se inserta en orden cronológico
	for i := len(p.History) - 1; i >= 0; i-- {
		if err := insertHistory(ctx, tx, p.ID, p.History[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update no toca la historia: sólo se modifica vía AppendHistory.
func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			name = $2, species = $3, breed = $4, age = $5, weight = $6, color = $7,
			owner_name = $8, owner_phone = $9, owner_email = $10, owner_address = $11,
			updated_at = $12
		WHERE id = $1
	`,
		p.ID, p.Name, p.Species, p.Breed, p.Age, p.Weight, p.Color,
		p.Owner.Name, p.Owner.Phone, p.Owner.Email, p.Owner.Address,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("patients: update: %w", err)
	}
	return notFoundIfNone(res, patients.ErrNotFound)
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("patients: delete: %w", err)
	}
	return notFoundIfNone(res, patients.ErrNotFound)
}

func (r *PatientsRepo) AppendHistory(ctx context.Context, patientID string, e patients.HistoryEntry) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, patientID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return patients.ErrNotFound
	}
	return insertHistory(ctx, r.db, patientID, e)
}

const historyColumns = `id, date, reason, diagnosis, treatment, observations, vet_id, created_at`

func (r *PatientsRepo) history(ctx context.Context, patientID string) ([]patients.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM patient_history
		WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.HistoryEntry, 0)
	for rows.Next() {
		var e patients.HistoryEntry
		var date time.Time
		if err := rows.Scan(&e.ID, &date, &e.Reason, &e.Diagnosis, &e.Treatment, &e.Observations, &e.VetID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Date = date.Format(dateLayout)
		out = append(out, e)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertHistory(ctx context.Context, db execer, patientID string, e patients.HistoryEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO patient_history (patient_id, `+historyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, patientID, e.ID, e.Date, e.Reason, e.Diagnosis, e.Treatment, e.Observations, e.VetID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("patients: append history: %w", err)
	}
	return nil
}

func scanPatient(s scanner) (patients.Patient, error) {
	var p patients.Patient
	if err := s.Scan(
		&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Weight, &p.Color,
		&p.Owner.Name, &p.Owner.Phone, &p.Owner.Email, &p.Owner.Address,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	p.History = []patients.HistoryEntry{}
	return p, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"laikavet/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `id, patient_id, vet_id, date, time, type, status, created_at, updated_at`

func (r *AppointmentsRepo) ListByDate(ctx context.Context, date string) ([]appointments.Appointment, error) {
	return r.ListBetween(ctx, date, date)
}

func (r *AppointmentsRepo) ListBetween(ctx context.Context, from, to string) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC, time ASC, id ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) Get(ctx context.Context, id string) (appointments.Appointment, error) {
	return scanAppointment(r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

// Insert traduce el índice único de franja a ErrSlotTaken.
func (r *AppointmentsRepo) Insert(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.PatientID, a.VetID, a.Date, a.Time, a.Type, a.Status, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return appointments.ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, a.ID, a.Status, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("appointments: update: %w", err)
	}
	return notFoundIfNone(res, appointments.ErrNotFound)
}

func scanAppointment(s scanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var date time.Time
	if err := s.Scan(&a.ID, &a.PatientID, &a.VetID, &date, &a.Time, &a.Type, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	a.Date = date.Format(dateLayout)
	return a, nil
}

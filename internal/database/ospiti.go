package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tennisclub/internal/models"

	"github.com/google/uuid"
)

const ospitiColumns = `id, nome, cognome, telefono, email, note, created_at, updated_at`

func (db *DB) CreateOspite(ctx context.Context, o *models.Ospite) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now()
	query := `INSERT INTO ospiti (id, nome, cognome, telefono, email, note, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		o.ID, o.Nome, o.Cognome, o.Telefono, o.Email, o.Note, now, now)
	if err != nil {
		return fmt.Errorf("failed to create ospite: %w", err)
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (db *DB) GetOspite(ctx context.Context, id string) (*models.Ospite, error) {
	query := `SELECT ` + ospitiColumns + ` FROM ospiti WHERE id = ?`
	o, err := scanOspite(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ospite: %w", err)
	}
	return o, nil
}

func (db *DB) ListOspiti(ctx context.Context) ([]*models.Ospite, error) {
	query := `SELECT ` + ospitiColumns + ` FROM ospiti ORDER BY cognome, nome`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ospiti: %w", err)
	}
	defer rows.Close()

	var ospiti []*models.Ospite
	for rows.Next() {
		o, err := scanOspite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ospite: %w", err)
		}
		ospiti = append(ospiti, o)
	}
	return ospiti, rows.Err()
}

func (db *DB) UpdateOspite(ctx context.Context, o *models.Ospite) error {
	query := `UPDATE ospiti SET nome = ?, cognome = ?, telefono = ?, email = ?,
                note = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		o.Nome, o.Cognome, o.Telefono, o.Email, o.Note, time.Now(), o.ID)
	if err != nil {
		return fmt.Errorf("failed to update ospite: %w", err)
	}
	return requireRow(result)
}

// DeleteOspite removes a guest permanently. The foreign key on
// prenotazioni rejects the delete while bookings still reference it.
func (db *DB) DeleteOspite(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM ospiti WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ospite: %w", err)
	}
	return requireRow(result)
}

func scanOspite(row rowScanner) (*models.Ospite, error) {
	o := &models.Ospite{}
	var telefono, email, note sql.NullString
	err := row.Scan(
		&o.ID, &o.Nome, &o.Cognome, &telefono, &email, &note,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Telefono = telefono.String
	o.Email = email.String
	o.Note = note.String
	return o, nil
}

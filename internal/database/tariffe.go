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

const tariffeColumns = `id, nome, tipo_prenotazione, tipo_campo, diurno, soci,
                        prezzo_ora, prezzo_mezz_ora, attivo, created_at, updated_at`

func (db *DB) CreateTariffa(ctx context.Context, t *models.Tariffa) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	query := `INSERT INTO tariffe (id, nome, tipo_prenotazione, tipo_campo,
                diurno, soci, prezzo_ora, prezzo_mezz_ora, attivo,
                created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		t.ID, t.Nome, t.TipoPrenotazione, t.TipoCampo,
		t.Diurno, t.Soci, t.PrezzoOra, t.PrezzoMezzOra, t.Attivo,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create tariffa: %w", err)
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (db *DB) UpdateTariffa(ctx context.Context, t *models.Tariffa) error {
	query := `UPDATE tariffe SET nome = ?, tipo_prenotazione = ?, tipo_campo = ?,
                diurno = ?, soci = ?, prezzo_ora = ?, prezzo_mezz_ora = ?,
                attivo = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		t.Nome, t.TipoPrenotazione, t.TipoCampo,
		t.Diurno, t.Soci, t.PrezzoOra, t.PrezzoMezzOra,
		t.Attivo, time.Now(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tariffa: %w", err)
	}
	return requireRow(result)
}

// DeactivateTariffa retires a price rule without touching history.
func (db *DB) DeactivateTariffa(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE tariffe SET attivo = 0, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate tariffa: %w", err)
	}
	return requireRow(result)
}

func (db *DB) ListTariffe(ctx context.Context, onlyActive bool) ([]*models.Tariffa, error) {
	query := `SELECT ` + tariffeColumns + ` FROM tariffe`
	if onlyActive {
		query += ` WHERE attivo = 1`
	}
	query += ` ORDER BY nome`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffe: %w", err)
	}
	defer rows.Close()

	var tariffe []*models.Tariffa
	for rows.Next() {
		t, err := scanTariffa(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tariffa: %w", err)
		}
		tariffe = append(tariffe, t)
	}
	return tariffe, rows.Err()
}

// ResolveTariffa returns the active rule matching the booking key.
// Duplicate keys are allowed; the most recently updated match wins.
func (db *DB) ResolveTariffa(ctx context.Context, tipoPrenotazione, tipoCampo string, diurno, soci bool) (*models.Tariffa, error) {
	query := `SELECT ` + tariffeColumns + ` FROM tariffe
              WHERE attivo = 1 AND tipo_prenotazione = ? AND tipo_campo = ?
                AND diurno = ? AND soci = ?
              ORDER BY updated_at DESC
              LIMIT 1`
	t, err := scanTariffa(db.QueryRowContext(ctx, query,
		tipoPrenotazione, tipoCampo, diurno, soci))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tariffa: %w", err)
	}
	return t, nil
}

func scanTariffa(row rowScanner) (*models.Tariffa, error) {
	t := &models.Tariffa{}
	err := row.Scan(
		&t.ID, &t.Nome, &t.TipoPrenotazione, &t.TipoCampo, &t.Diurno, &t.Soci,
		&t.PrezzoOra, &t.PrezzoMezzOra, &t.Attivo, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"tennisclub/internal/models"
)

// CreateSerie inserts all occurrences of a recurring series and their
// upfront payment rows, if any, in a single transaction. A slot
// conflict on any occurrence books nothing.
func (db *DB) CreateSerie(ctx context.Context, prenotazioni []*models.Prenotazione, pagamenti []*models.Pagamento) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range prenotazioni {
		if err := insertPrenotazioneTx(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, pg := range pagamenti {
		if err := insertPagamentoTx(ctx, tx, pg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSerieRows returns bookings that belong to a recurring series:
// rows carrying serie_id, plus legacy rows grouped only by their
// "<tipo> - <nome> - <extra>" note.
func (db *DB) ListSerieRows(ctx context.Context) ([]*models.Prenotazione, error) {
	query := prenotazioniSelect + `
        WHERE p.serie_id IS NOT NULL
           OR (p.note IS NOT NULL AND p.note LIKE '% - %')
        ORDER BY p.data, p.ora_inizio`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list serie rows: %w", err)
	}
	defer rows.Close()
	return collectPrenotazioni(rows)
}

// GetSeriePrenotazioni returns every occurrence of one series.
func (db *DB) GetSeriePrenotazioni(ctx context.Context, serieID string) ([]*models.Prenotazione, error) {
	query := prenotazioniSelect + ` WHERE p.serie_id = ? ORDER BY p.data, p.ora_inizio`
	rows, err := db.QueryContext(ctx, query, serieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get serie prenotazioni: %w", err)
	}
	defer rows.Close()
	return collectPrenotazioni(rows)
}

// DeleteSerie removes every occurrence of a series; payments cascade.
func (db *DB) DeleteSerie(ctx context.Context, serieID string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM prenotazioni WHERE serie_id = ?`, serieID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete serie: %w", err)
	}
	return result.RowsAffected()
}

// PaySerie settles the outstanding occurrences of a series: one
// payment row per unpaid booking at its own amount, stato flipped,
// one transaction.
func (db *DB) PaySerie(ctx context.Context, serieID, metodo, metodoTipo string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, importo FROM prenotazioni WHERE serie_id = ? AND stato_pagamento = ?`,
		serieID, models.StatoDaPagare)
	if err != nil {
		return 0, fmt.Errorf("failed to select unpaid serie rows: %w", err)
	}

	type unpaid struct {
		id      string
		importo float64
	}
	var pending []unpaid
	for rows.Next() {
		var u unpaid
		if err := rows.Scan(&u.id, &u.importo); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan unpaid serie row: %w", err)
		}
		pending = append(pending, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	now := time.Now()
	for _, u := range pending {
		p := &models.Pagamento{
			PrenotazioneID:      u.id,
			Importo:             u.importo,
			DataPagamento:       now,
			MetodoPagamento:     metodo,
			MetodoPagamentoTipo: metodoTipo,
		}
		if err := insertPagamentoTx(ctx, tx, p); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE prenotazioni SET stato_pagamento = ?, updated_at = ? WHERE id = ?`,
			models.StatoPagato, now, u.id); err != nil {
			return 0, fmt.Errorf("failed to mark serie row paid: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	db.logger.Info().
		Str("serie_id", serieID).
		Int("pagate", len(pending)).
		Msg("Serie settled")
	return len(pending), nil
}

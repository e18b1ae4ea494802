package database

import (
	"context"
	"fmt"
	"time"

	"tennisclub/internal/models"
)

// ListPrenotazioniOspitiPagate returns paid guest bookings in the
// date range, the raw material of the VAT report.
func (db *DB) ListPrenotazioniOspitiPagate(ctx context.Context, from, to time.Time) ([]*models.Prenotazione, error) {
	query := prenotazioniSelect + `
        WHERE p.ospite_id IS NOT NULL AND p.stato_pagamento = ?
          AND date(p.data) >= ? AND date(p.data) <= ?
        ORDER BY p.data, p.ora_inizio`
	rows, err := db.QueryContext(ctx, query, models.StatoPagato,
		from.Format(models.DateFormat), to.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to list paid guest bookings: %w", err)
	}
	defer rows.Close()
	return collectPrenotazioni(rows)
}

func (db *DB) CountSociAttivi(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM soci WHERE attivo = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active soci: %w", err)
	}
	return count, nil
}

func (db *DB) CountPrenotazioniByDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prenotazioni WHERE date(data) = ? AND annullata_pioggia = 0`,
		date.Format(models.DateFormat)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for date: %w", err)
	}
	return count, nil
}

// InsolutiTotals returns count and summed amount of all unpaid,
// not rain-cancelled bookings.
func (db *DB) InsolutiTotals(ctx context.Context) (int, float64, error) {
	var count int
	var total float64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(importo), 0) FROM prenotazioni
         WHERE stato_pagamento = ? AND annullata_pioggia = 0`,
		models.StatoDaPagare).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total insoluti: %w", err)
	}
	return count, total, nil
}

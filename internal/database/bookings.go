package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tennisclub/internal/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const prenotazioniSelect = `
    SELECT p.id, p.campo, date(p.data), p.ora_inizio, p.ora_fine,
           p.tipo_prenotazione, p.tipo_campo, p.diurno,
           p.socio_id, p.ospite_id, p.importo, p.stato_pagamento,
           p.serie_id, p.note, p.annullata_pioggia, p.data_annullamento_pioggia,
           p.created_at, p.updated_at,
           COALESCE(s.nome, o.nome, ''), COALESCE(s.cognome, o.cognome, ''),
           COALESCE(s.tipo_socio, '')
    FROM prenotazioni p
    LEFT JOIN soci s ON s.id = p.socio_id
    LEFT JOIN ospiti o ON o.id = p.ospite_id`

func (db *DB) GetPrenotazione(ctx context.Context, id string) (*models.Prenotazione, error) {
	query := prenotazioniSelect + ` WHERE p.id = ?`
	p, err := scanPrenotazione(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prenotazione: %w", err)
	}
	return p, nil
}

// GetPrenotazioniByDateRange returns bookings between the two dates
// inclusive, ordered for grid rendering. Rain-cancelled rows are
// included; callers filter when they need playable slots only.
func (db *DB) GetPrenotazioniByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*models.Prenotazione, error) {
	query := prenotazioniSelect + `
        WHERE date(p.data) >= ? AND date(p.data) <= ?
        ORDER BY p.data, p.ora_inizio, p.campo`
	rows, err := db.QueryContext(ctx, query,
		startDate.Format(models.DateFormat), endDate.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to get prenotazioni by date range: %w", err)
	}
	defer rows.Close()
	return collectPrenotazioni(rows)
}

// SlotOccupied is the friendly pre-check before an insert. The unique
// index on (data, ora_inizio, campo) remains the authoritative guard.
func (db *DB) SlotOccupied(ctx context.Context, data time.Time, oraInizio string, campo int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM prenotazioni WHERE date(data) = ? AND ora_inizio = ? AND campo = ?`
	err := db.QueryRowContext(ctx, query,
		data.Format(models.DateFormat), oraInizio, campo).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

func (db *DB) CreatePrenotazione(ctx context.Context, p *models.Prenotazione) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertPrenotazioneTx(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// CreatePrenotazioniBatch inserts one booking per selected slot in a
// single transaction, so a conflict on any slot books nothing.
func (db *DB) CreatePrenotazioniBatch(ctx context.Context, prenotazioni []*models.Prenotazione) error {
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
	return tx.Commit()
}

func insertPrenotazioneTx(ctx context.Context, tx *sql.Tx, p *models.Prenotazione) error {
	if (p.SocioID == nil) == (p.OspiteID == nil) {
		return ErrNoClient
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	query := `INSERT INTO prenotazioni (id, campo, data, ora_inizio, ora_fine,
                tipo_prenotazione, tipo_campo, diurno, socio_id, ospite_id,
                importo, stato_pagamento, serie_id, note,
                annullata_pioggia, data_annullamento_pioggia,
                created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		p.ID, p.Campo, p.Data.Format(models.DateFormat), p.OraInizio, p.OraFine,
		p.TipoPrenotazione, p.TipoCampo, p.Diurno, p.SocioID, p.OspiteID,
		p.Importo, p.StatoPagamento, p.SerieID, p.Note,
		p.AnnullataPioggia, p.DataAnnullamento,
		now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert prenotazione: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// SetPioggia flags a booking rain-cancelled, or clears the flag when
// cancelled is false (restore).
func (db *DB) SetPioggia(ctx context.Context, id string, cancelled bool) error {
	now := time.Now()
	var result sql.Result
	var err error
	if cancelled {
		result, err = db.ExecContext(ctx, `UPDATE prenotazioni
            SET annullata_pioggia = 1, data_annullamento_pioggia = ?, updated_at = ?
            WHERE id = ?`, now, now, id)
	} else {
		result, err = db.ExecContext(ctx, `UPDATE prenotazioni
            SET annullata_pioggia = 0, data_annullamento_pioggia = NULL, updated_at = ?
            WHERE id = ?`, now, id)
	}
	if err != nil {
		return fmt.Errorf("failed to set pioggia flag: %w", err)
	}
	return requireRow(result)
}

func (db *DB) DeletePrenotazione(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM prenotazioni WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prenotazione: %w", err)
	}
	return requireRow(result)
}

// SplitPrenotazione removes the hour [targetHour, targetHour+1) from a
// booking spanning several hours. The fragments before and after the
// target inherit client, type, court and notes, with amounts prorated
// by hours. With rain set, the target hour is recreated as a one-hour
// rain-cancelled booking; otherwise it is dropped. The whole rewrite
// happens in one transaction.
func (db *DB) SplitPrenotazione(ctx context.Context, id string, targetHour int, rain bool) ([]*models.Prenotazione, error) {
	original, err := db.GetPrenotazione(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := models.HourOf(original.OraInizio), models.HourOf(original.OraFine)
	if start < 0 || end <= start {
		return nil, fmt.Errorf("prenotazione %s has invalid hour range %s-%s", id, original.OraInizio, original.OraFine)
	}
	if targetHour < start || targetHour >= end {
		return nil, ErrHourOutsideBooking
	}

	total := end - start
	fragments := make([]*models.Prenotazione, 0, 3)
	weights := make([]float64, 0, 2)
	if targetHour > start {
		fragments = append(fragments, fragmentOf(original, start, targetHour))
		weights = append(weights, float64(targetHour-start))
	}
	if targetHour+1 < end {
		fragments = append(fragments, fragmentOf(original, targetHour+1, end))
		weights = append(weights, float64(end-targetHour-1))
	}

	// Each fragment carries importo × (its hours / total hours),
	// rounded to cents; the target hour keeps its own share.
	if len(fragments) > 0 {
		fragTotal := models.RoundCents(original.Importo * sumWeights(weights) / float64(total))
		shares := models.Prorate(fragTotal, weights)
		for i, f := range fragments {
			f.Importo = shares[i]
		}
	}

	if rain {
		cancelled := fragmentOf(original, targetHour, targetHour+1)
		cancelled.Importo = models.RoundCents(original.Importo / float64(total))
		now := time.Now()
		cancelled.AnnullataPioggia = true
		cancelled.DataAnnullamento = &now
		fragments = append(fragments, cancelled)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prenotazioni WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete original prenotazione: %w", err)
	}
	for _, f := range fragments {
		if err := insertPrenotazioneTx(ctx, tx, f); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit split: %w", err)
	}

	db.logger.Info().
		Str("prenotazione_id", id).
		Int("ora", targetHour).
		Bool("pioggia", rain).
		Int("frammenti", len(fragments)).
		Msg("Booking split")
	return fragments, nil
}

func fragmentOf(original *models.Prenotazione, startHour, endHour int) *models.Prenotazione {
	return &models.Prenotazione{
		Campo:            original.Campo,
		Data:             original.Data,
		OraInizio:        models.HourLabel(startHour),
		OraFine:          models.HourLabel(endHour),
		TipoPrenotazione: original.TipoPrenotazione,
		TipoCampo:        original.TipoCampo,
		Diurno:           models.IsDiurno(startHour),
		SocioID:          original.SocioID,
		OspiteID:         original.OspiteID,
		StatoPagamento:   original.StatoPagamento,
		SerieID:          original.SerieID,
		Note:             original.Note,
	}
}

func sumWeights(weights []float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}

func scanPrenotazione(row rowScanner) (*models.Prenotazione, error) {
	p := &models.Prenotazione{}
	var dateStr string
	var socioID, ospiteID, serieID, note sql.NullString
	var annullamento sql.NullTime
	err := row.Scan(
		&p.ID, &p.Campo, &dateStr, &p.OraInizio, &p.OraFine,
		&p.TipoPrenotazione, &p.TipoCampo, &p.Diurno,
		&socioID, &ospiteID, &p.Importo, &p.StatoPagamento,
		&serieID, &note, &p.AnnullataPioggia, &annullamento,
		&p.CreatedAt, &p.UpdatedAt,
		&p.NomeCliente, &p.CognomeCliente, &p.TipoSocio,
	)
	if err != nil {
		return nil, err
	}
	p.Data, err = time.Parse(models.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prenotazione date %s: %w", dateStr, err)
	}
	if socioID.Valid {
		p.SocioID = &socioID.String
	}
	if ospiteID.Valid {
		p.OspiteID = &ospiteID.String
	}
	if serieID.Valid {
		p.SerieID = &serieID.String
	}
	p.Note = note.String
	if annullamento.Valid {
		t := annullamento.Time
		p.DataAnnullamento = &t
	}
	return p, nil
}

func collectPrenotazioni(rows *sql.Rows) ([]*models.Prenotazione, error) {
	var prenotazioni []*models.Prenotazione
	for rows.Next() {
		p, err := scanPrenotazione(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prenotazione: %w", err)
		}
		prenotazioni = append(prenotazioni, p)
	}
	return prenotazioni, rows.Err()
}

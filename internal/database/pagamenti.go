package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tennisclub/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreatePagamento(ctx context.Context, p *models.Pagamento) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertPagamentoTx(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPagamentoTx(ctx context.Context, tx *sql.Tx, p *models.Pagamento) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DataPagamento.IsZero() {
		p.DataPagamento = time.Now()
	}
	now := time.Now()
	query := `INSERT INTO pagamenti (id, prenotazione_id, importo, data_pagamento,
                metodo_pagamento, metodo_pagamento_tipo, note, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		p.ID, p.PrenotazioneID, p.Importo, p.DataPagamento,
		p.MetodoPagamento, p.MetodoPagamentoTipo, p.Note, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pagamento: %w", err)
	}
	p.CreatedAt = now
	return nil
}

// PagamentoCliente is a cash-register row joined with the client of
// the booking it settles. Used by the financial reports.
type PagamentoCliente struct {
	models.Pagamento
	NomeCliente    string
	CognomeCliente string
	IsOspite       bool
}

// ListPagamenti returns payments in [from, to] with client info,
// newest first.
func (db *DB) ListPagamenti(ctx context.Context, from, to time.Time) ([]*PagamentoCliente, error) {
	query := `
        SELECT pg.id, pg.prenotazione_id, pg.importo, pg.data_pagamento,
               pg.metodo_pagamento, pg.metodo_pagamento_tipo, pg.note, pg.created_at,
               COALESCE(s.nome, o.nome, ''), COALESCE(s.cognome, o.cognome, ''),
               p.ospite_id IS NOT NULL
        FROM pagamenti pg
        JOIN prenotazioni p ON p.id = pg.prenotazione_id
        LEFT JOIN soci s ON s.id = p.socio_id
        LEFT JOIN ospiti o ON o.id = p.ospite_id
        WHERE pg.data_pagamento >= ? AND pg.data_pagamento < ?
        ORDER BY pg.data_pagamento DESC`
	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list pagamenti: %w", err)
	}
	defer rows.Close()

	var pagamenti []*PagamentoCliente
	for rows.Next() {
		pc := &PagamentoCliente{}
		var note sql.NullString
		err := rows.Scan(
			&pc.ID, &pc.PrenotazioneID, &pc.Importo, &pc.DataPagamento,
			&pc.MetodoPagamento, &pc.MetodoPagamentoTipo, &note, &pc.CreatedAt,
			&pc.NomeCliente, &pc.CognomeCliente, &pc.IsOspite,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pagamento: %w", err)
		}
		pc.Note = note.String
		pagamenti = append(pagamenti, pc)
	}
	return pagamenti, rows.Err()
}

// ListInsoluti returns unpaid, not rain-cancelled bookings up to and
// including the given date, with client info for grouping.
func (db *DB) ListInsoluti(ctx context.Context, until time.Time) ([]*models.Prenotazione, error) {
	query := prenotazioniSelect + `
        WHERE p.stato_pagamento = ? AND p.annullata_pioggia = 0
          AND date(p.data) <= ?
        ORDER BY p.data, p.ora_inizio`
	rows, err := db.QueryContext(ctx, query,
		models.StatoDaPagare, until.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to list insoluti: %w", err)
	}
	defer rows.Close()
	return collectPrenotazioni(rows)
}

// PaymentAllocation fixes the amount a settlement assigns to one
// booking.
type PaymentAllocation struct {
	PrenotazioneID string
	Importo        float64
}

// SettlePrenotazioni inserts one payment row per allocation and flips
// the settled bookings to paid, all in one transaction.
func (db *DB) SettlePrenotazioni(ctx context.Context, allocations []PaymentAllocation, metodo, metodoTipo, note string) error {
	if len(allocations) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, a := range allocations {
		p := &models.Pagamento{
			PrenotazioneID:      a.PrenotazioneID,
			Importo:             a.Importo,
			DataPagamento:       now,
			MetodoPagamento:     metodo,
			MetodoPagamentoTipo: metodoTipo,
			Note:                note,
		}
		if err := insertPagamentoTx(ctx, tx, p); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE prenotazioni SET stato_pagamento = ?, updated_at = ? WHERE id = ?`,
			models.StatoPagato, now, a.PrenotazioneID)
		if err != nil {
			return fmt.Errorf("failed to mark prenotazione paid: %w", err)
		}
		if err := requireRow(result); err != nil {
			return fmt.Errorf("prenotazione %s: %w", a.PrenotazioneID, err)
		}
	}
	return tx.Commit()
}

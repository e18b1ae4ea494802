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

const sociColumns = `id, nome, cognome, telefono, email, tipo_socio,
                     classifica_fitp, certificato_medico_scadenza, note,
                     attivo, created_at, updated_at`

func (db *DB) CreateSocio(ctx context.Context, s *models.Socio) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	query := `INSERT INTO soci (id, nome, cognome, telefono, email, tipo_socio,
                classifica_fitp, certificato_medico_scadenza, note, attivo,
                created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		s.ID, s.Nome, s.Cognome, s.Telefono, s.Email, s.TipoSocio,
		s.ClassificaFITP, nullDate(s.CertificatoScadenza), s.Note, s.Attivo,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create socio: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (db *DB) GetSocio(ctx context.Context, id string) (*models.Socio, error) {
	query := `SELECT ` + sociColumns + ` FROM soci WHERE id = ?`
	s, err := scanSocio(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get socio: %w", err)
	}
	return s, nil
}

// ListSoci returns members ordered by surname. With onlyActive it
// skips deactivated rows.
func (db *DB) ListSoci(ctx context.Context, onlyActive bool) ([]*models.Socio, error) {
	query := `SELECT ` + sociColumns + ` FROM soci`
	if onlyActive {
		query += ` WHERE attivo = 1`
	}
	query += ` ORDER BY cognome, nome`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list soci: %w", err)
	}
	defer rows.Close()

	var soci []*models.Socio
	for rows.Next() {
		s, err := scanSocio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan socio: %w", err)
		}
		soci = append(soci, s)
	}
	return soci, rows.Err()
}

// ListMaestri returns the active instructors.
func (db *DB) ListMaestri(ctx context.Context) ([]*models.Socio, error) {
	query := `SELECT ` + sociColumns + ` FROM soci
              WHERE attivo = 1 AND tipo_socio = ?
              ORDER BY cognome, nome`
	rows, err := db.QueryContext(ctx, query, models.SocioMaestro)
	if err != nil {
		return nil, fmt.Errorf("failed to list maestri: %w", err)
	}
	defer rows.Close()

	var maestri []*models.Socio
	for rows.Next() {
		s, err := scanSocio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maestro: %w", err)
		}
		maestri = append(maestri, s)
	}
	return maestri, rows.Err()
}

func (db *DB) UpdateSocio(ctx context.Context, s *models.Socio) error {
	query := `UPDATE soci SET nome = ?, cognome = ?, telefono = ?, email = ?,
                tipo_socio = ?, classifica_fitp = ?,
                certificato_medico_scadenza = ?, note = ?, attivo = ?,
                updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		s.Nome, s.Cognome, s.Telefono, s.Email,
		s.TipoSocio, s.ClassificaFITP,
		nullDate(s.CertificatoScadenza), s.Note, s.Attivo,
		time.Now(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update socio: %w", err)
	}
	return requireRow(result)
}

// DeactivateSocio soft-deletes a member, keeping its bookings.
func (db *DB) DeactivateSocio(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE soci SET attivo = 0, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate socio: %w", err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSocio(row rowScanner) (*models.Socio, error) {
	s := &models.Socio{}
	var telefono, email, classifica, note sql.NullString
	var scadenza sql.NullTime
	err := row.Scan(
		&s.ID, &s.Nome, &s.Cognome, &telefono, &email, &s.TipoSocio,
		&classifica, &scadenza, &note, &s.Attivo, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Telefono = telefono.String
	s.Email = email.String
	s.ClassificaFITP = classifica.String
	s.Note = note.String
	if scadenza.Valid {
		t := scadenza.Time
		s.CertificatoScadenza = &t
	}
	return s, nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(models.DateFormat)
}

func requireRow(result sql.Result) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

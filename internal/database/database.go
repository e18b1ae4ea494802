package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS soci (
            id TEXT PRIMARY KEY,
            nome TEXT NOT NULL,
            cognome TEXT NOT NULL,
            telefono TEXT,
            email TEXT,
            tipo_socio TEXT NOT NULL DEFAULT 'frequentatore',
            classifica_fitp TEXT,
            certificato_medico_scadenza DATE,
            note TEXT,
            attivo BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS ospiti (
            id TEXT PRIMARY KEY,
            nome TEXT NOT NULL,
            cognome TEXT NOT NULL,
            telefono TEXT,
            email TEXT,
            note TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS tariffe (
            id TEXT PRIMARY KEY,
            nome TEXT NOT NULL,
            tipo_prenotazione TEXT NOT NULL,
            tipo_campo TEXT NOT NULL DEFAULT 'scoperto',
            diurno BOOLEAN NOT NULL DEFAULT 1,
            soci BOOLEAN NOT NULL DEFAULT 1,
            prezzo_ora REAL NOT NULL,
            prezzo_mezz_ora REAL NOT NULL DEFAULT 0,
            attivo BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS prenotazioni (
            id TEXT PRIMARY KEY,
            campo INTEGER NOT NULL CHECK (campo IN (1, 2)),
            data DATE NOT NULL,
            ora_inizio TEXT NOT NULL,
            ora_fine TEXT NOT NULL,
            tipo_prenotazione TEXT NOT NULL DEFAULT 'singolare',
            tipo_campo TEXT NOT NULL DEFAULT 'scoperto',
            diurno BOOLEAN NOT NULL DEFAULT 1,
            socio_id TEXT REFERENCES soci(id),
            ospite_id TEXT REFERENCES ospiti(id),
            importo REAL NOT NULL DEFAULT 0,
            stato_pagamento TEXT NOT NULL DEFAULT 'da_pagare',
            serie_id TEXT,
            note TEXT,
            annullata_pioggia BOOLEAN NOT NULL DEFAULT 0,
            data_annullamento_pioggia DATETIME,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            CHECK ((socio_id IS NULL) != (ospite_id IS NULL))
        )`,
		`CREATE TABLE IF NOT EXISTS pagamenti (
            id TEXT PRIMARY KEY,
            prenotazione_id TEXT NOT NULL REFERENCES prenotazioni(id) ON DELETE CASCADE,
            importo REAL NOT NULL,
            data_pagamento DATETIME NOT NULL,
            metodo_pagamento TEXT NOT NULL,
            metodo_pagamento_tipo TEXT NOT NULL DEFAULT 'contanti',
            note TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		// one booking per (date, start, court)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_prenotazioni_slot
            ON prenotazioni(data, ora_inizio, campo)`,

		`CREATE INDEX IF NOT EXISTS idx_prenotazioni_data ON prenotazioni(data)`,
		`CREATE INDEX IF NOT EXISTS idx_prenotazioni_stato ON prenotazioni(stato_pagamento)`,
		`CREATE INDEX IF NOT EXISTS idx_prenotazioni_serie ON prenotazioni(serie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prenotazioni_socio ON prenotazioni(socio_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prenotazioni_ospite ON prenotazioni(ospite_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pagamenti_data ON pagamenti(data_pagamento)`,
		`CREATE INDEX IF NOT EXISTS idx_pagamenti_prenotazione ON pagamenti(prenotazione_id)`,
		`CREATE INDEX IF NOT EXISTS idx_soci_attivo ON soci(attivo)`,
		`CREATE INDEX IF NOT EXISTS idx_tariffe_attivo ON tariffe(attivo)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

package database

import (
	"context"
	"testing"
	"time"

	"tennisclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSociCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	scadenza := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &models.Socio{
		Nome:                "Anna",
		Cognome:             "Verdi",
		Telefono:            "3331112222",
		TipoSocio:           models.SocioAgonista,
		ClassificaFITP:      "3.4",
		CertificatoScadenza: &scadenza,
		Attivo:              true,
	}
	require.NoError(t, db.CreateSocio(ctx, s))

	got, err := db.GetSocio(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Nome)
	assert.Equal(t, "3.4", got.ClassificaFITP)
	require.NotNil(t, got.CertificatoScadenza)
	assert.Equal(t, "2026-03-01", got.CertificatoScadenza.Format(models.DateFormat))

	got.Telefono = "3349998888"
	require.NoError(t, db.UpdateSocio(ctx, got))
	got, err = db.GetSocio(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "3349998888", got.Telefono)

	require.NoError(t, db.DeactivateSocio(ctx, s.ID))
	attivi, err := db.ListSoci(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, attivi)
	tutti, err := db.ListSoci(ctx, false)
	require.NoError(t, err)
	assert.Len(t, tutti, 1)

	_, err = db.GetSocio(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMaestri(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	createTestSocio(t, db, "Paolo", "Neri", models.SocioMaestro)
	createTestSocio(t, db, "Andrea", "Gallo", models.SocioMaestro)

	maestri, err := db.ListMaestri(ctx)
	require.NoError(t, err)
	require.Len(t, maestri, 2)
	assert.Equal(t, "Gallo", maestri[0].Cognome)
	assert.Equal(t, "Neri", maestri[1].Cognome)
}

func TestOspitiCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	o := &models.Ospite{Nome: "Luca", Cognome: "Bianchi", Telefono: "3400011222"}
	require.NoError(t, db.CreateOspite(ctx, o))

	got, err := db.GetOspite(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bianchi", got.Cognome)

	got.Email = "luca@example.com"
	require.NoError(t, db.UpdateOspite(ctx, got))

	lista, err := db.ListOspiti(ctx)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "luca@example.com", lista[0].Email)

	require.NoError(t, db.DeleteOspite(ctx, o.ID))
	_, err = db.GetOspite(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOspiteWithBookingsFails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	o := createTestOspite(t, db, "Luca", "Bianchi")
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreatePrenotazione(ctx, testPrenotazione(nil, &o.ID, date, 10, 1, 20)))

	assert.Error(t, db.DeleteOspite(ctx, o.ID))
}

func TestTariffeResolve(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := &models.Tariffa{
		Nome:             "Singolare diurno soci",
		TipoPrenotazione: models.TipoSingolare,
		TipoCampo:        models.CampoScoperto,
		Diurno:           true,
		Soci:             true,
		PrezzoOra:        12,
		Attivo:           true,
	}
	require.NoError(t, db.CreateTariffa(ctx, older))

	// Force distinct updated_at, then add a duplicate key.
	time.Sleep(10 * time.Millisecond)
	newer := &models.Tariffa{
		Nome:             "Singolare diurno soci 2025",
		TipoPrenotazione: models.TipoSingolare,
		TipoCampo:        models.CampoScoperto,
		Diurno:           true,
		Soci:             true,
		PrezzoOra:        14,
		Attivo:           true,
	}
	require.NoError(t, db.CreateTariffa(ctx, newer))

	got, err := db.ResolveTariffa(ctx, models.TipoSingolare, models.CampoScoperto, true, true)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, 14.0, got.PrezzoOra)

	// A deactivated rule no longer matches.
	require.NoError(t, db.DeactivateTariffa(ctx, newer.ID))
	got, err = db.ResolveTariffa(ctx, models.TipoSingolare, models.CampoScoperto, true, true)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	_, err = db.ResolveTariffa(ctx, models.TipoDoppio, models.CampoScoperto, false, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"tennisclub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSocio(t *testing.T, db *DB, nome, cognome, tipo string) *models.Socio {
	s := &models.Socio{
		Nome:      nome,
		Cognome:   cognome,
		TipoSocio: tipo,
		Attivo:    true,
	}
	require.NoError(t, db.CreateSocio(context.Background(), s))
	return s
}

func createTestOspite(t *testing.T, db *DB, nome, cognome string) *models.Ospite {
	o := &models.Ospite{Nome: nome, Cognome: cognome}
	require.NoError(t, db.CreateOspite(context.Background(), o))
	return o
}

func testPrenotazione(socioID *string, ospiteID *string, date time.Time, hour, campo int, importo float64) *models.Prenotazione {
	return &models.Prenotazione{
		Campo:            campo,
		Data:             date,
		OraInizio:        models.HourLabel(hour),
		OraFine:          models.HourLabel(hour + 1),
		TipoPrenotazione: models.TipoSingolare,
		TipoCampo:        models.CampoScoperto,
		Diurno:           models.IsDiurno(hour),
		SocioID:          socioID,
		OspiteID:         ospiteID,
		Importo:          importo,
		StatoPagamento:   models.StatoDaPagare,
	}
}

func TestCreatePrenotazione(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := db.GetPrenotazione(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.OraInizio)
	assert.Equal(t, "11:00", got.OraFine)
	assert.True(t, got.Diurno)
	assert.Equal(t, "Mario", got.NomeCliente)
	assert.Equal(t, "Rossi", got.CognomeCliente)
	assert.Equal(t, models.SocioAgonista, got.TipoSocio)
	assert.Equal(t, "2025-06-09", got.Data.Format(models.DateFormat))
}

func TestCreatePrenotazioneSlotConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	ospite := createTestOspite(t, db, "Luca", "Bianchi")
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	first := testPrenotazione(&socio.ID, nil, date, 10, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, first))

	occupied, err := db.SlotOccupied(ctx, date, "10:00", 1)
	require.NoError(t, err)
	assert.True(t, occupied)

	second := testPrenotazione(nil, &ospite.ID, date, 10, 1, 20)
	err = db.CreatePrenotazione(ctx, second)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Same hour on the other court is fine.
	other := testPrenotazione(nil, &ospite.ID, date, 10, 2, 20)
	assert.NoError(t, db.CreatePrenotazione(ctx, other))
}

func TestCreatePrenotazioneClientXOR(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	// Neither client set.
	p := testPrenotazione(nil, nil, date, 10, 1, 15)
	assert.ErrorIs(t, db.CreatePrenotazione(ctx, p), ErrNoClient)

	// Both set.
	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	ospite := createTestOspite(t, db, "Luca", "Bianchi")
	p = testPrenotazione(&socio.ID, &ospite.ID, date, 11, 1, 15)
	assert.ErrorIs(t, db.CreatePrenotazione(ctx, p), ErrNoClient)
}

func TestCreatePrenotazioniBatchAtomic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	blocker := testPrenotazione(&socio.ID, nil, date, 11, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, blocker))

	batch := []*models.Prenotazione{
		testPrenotazione(&socio.ID, nil, date, 10, 1, 15),
		testPrenotazione(&socio.ID, nil, date, 11, 1, 15), // conflicts
		testPrenotazione(&socio.ID, nil, date, 12, 1, 15),
	}
	err := db.CreatePrenotazioniBatch(ctx, batch)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Nothing from the batch landed.
	occupied, err := db.SlotOccupied(ctx, date, "10:00", 1)
	require.NoError(t, err)
	assert.False(t, occupied)
	occupied, err = db.SlotOccupied(ctx, date, "12:00", 1)
	require.NoError(t, err)
	assert.False(t, occupied)
}

func TestGetPrenotazioniByDateRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.CreatePrenotazione(ctx, testPrenotazione(&socio.ID, nil, monday, 10, 1, 15)))
	require.NoError(t, db.CreatePrenotazione(ctx, testPrenotazione(&socio.ID, nil, monday.AddDate(0, 0, 3), 18, 2, 15)))
	require.NoError(t, db.CreatePrenotazione(ctx, testPrenotazione(&socio.ID, nil, monday.AddDate(0, 0, 8), 10, 1, 15)))

	week, err := db.GetPrenotazioniByDateRange(ctx, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, week, 2)
}

func TestSetPioggia(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, p))

	require.NoError(t, db.SetPioggia(ctx, p.ID, true))
	got, err := db.GetPrenotazione(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.AnnullataPioggia)
	require.NotNil(t, got.DataAnnullamento)

	require.NoError(t, db.SetPioggia(ctx, p.ID, false))
	got, err = db.GetPrenotazione(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.AnnullataPioggia)
	assert.Nil(t, got.DataAnnullamento)

	assert.ErrorIs(t, db.SetPioggia(ctx, "missing", true), ErrNotFound)
}

func TestSplitPrenotazioneMiddleHour(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	// One row spanning 10:00-13:00 at 45 euro.
	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 45)
	p.OraFine = "13:00"
	require.NoError(t, db.CreatePrenotazione(ctx, p))

	fragments, err := db.SplitPrenotazione(ctx, p.ID, 11, false)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, "10:00", fragments[0].OraInizio)
	assert.Equal(t, "11:00", fragments[0].OraFine)
	assert.Equal(t, 15.0, fragments[0].Importo)

	assert.Equal(t, "12:00", fragments[1].OraInizio)
	assert.Equal(t, "13:00", fragments[1].OraFine)
	assert.Equal(t, 15.0, fragments[1].Importo)

	// Original is gone.
	_, err = db.GetPrenotazione(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSplitPrenotazioneRain(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 30)
	p.OraFine = "12:00"
	require.NoError(t, db.CreatePrenotazione(ctx, p))

	fragments, err := db.SplitPrenotazione(ctx, p.ID, 10, true)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	// Remaining playable hour.
	assert.Equal(t, "11:00", fragments[0].OraInizio)
	assert.Equal(t, 15.0, fragments[0].Importo)
	assert.False(t, fragments[0].AnnullataPioggia)

	// Rain-cancelled hour recreated in place.
	assert.Equal(t, "10:00", fragments[1].OraInizio)
	assert.Equal(t, "11:00", fragments[1].OraFine)
	assert.True(t, fragments[1].AnnullataPioggia)
	assert.NotNil(t, fragments[1].DataAnnullamento)
}

func TestSplitPrenotazioneOddAmountSumsExactly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	// 50 euro over 10:00-13:00; dropping 12:00 leaves 2/3 of the
	// amount on a contiguous fragment.
	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 50)
	p.OraFine = "13:00"
	require.NoError(t, db.CreatePrenotazione(ctx, p))

	fragments, err := db.SplitPrenotazione(ctx, p.ID, 12, false)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "10:00", fragments[0].OraInizio)
	assert.Equal(t, "12:00", fragments[0].OraFine)
	assert.Equal(t, 33.33, fragments[0].Importo)
}

func TestSplitPrenotazioneHourOutside(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, p))

	_, err := db.SplitPrenotazione(ctx, p.ID, 14, false)
	assert.ErrorIs(t, err, ErrHourOutsideBooking)
}

func TestDeletePrenotazione(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	socio := createTestSocio(t, db, "Mario", "Rossi", models.SocioAgonista)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	p := testPrenotazione(&socio.ID, nil, date, 10, 1, 15)
	require.NoError(t, db.CreatePrenotazione(ctx, p))
	require.NoError(t, db.DeletePrenotazione(ctx, p.ID))

	_, err := db.GetPrenotazione(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeletePrenotazione(ctx, p.ID), ErrNotFound)
}

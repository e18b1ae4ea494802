package service

import (
	"context"
	"testing"
	"time"

	"tennisclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrences(t *testing.T) {
	// June 2025: Mondays fall on 2, 9, 16, 23, 30.
	start := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC) // Wednesday
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	dates := Occurrences(start, end, time.Monday)
	require.Len(t, dates, 4)
	assert.Equal(t, "2025-06-09", dates[0].Format(models.DateFormat))
	assert.Equal(t, "2025-06-30", dates[3].Format(models.DateFormat))
	for i, d := range dates {
		assert.Equal(t, time.Monday, d.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, d.Sub(dates[i-1]))
		}
	}

	// Start already on the weekday counts as the first occurrence.
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	dates = Occurrences(monday, monday, time.Monday)
	require.Len(t, dates, 1)
	assert.Equal(t, "2025-06-09", dates[0].Format(models.DateFormat))

	// No occurrence inside a range that skips the weekday.
	assert.Empty(t, Occurrences(
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
		time.Monday))
}

func TestGenerateSerieCorso(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	socio := createTestSocio(t, env.db, "Anna", "Verdi", models.SocioNonAgonista)
	created, err := env.serie.Generate(ctx, GenerateSerieInput{
		Campo:      1,
		Weekday:    time.Tuesday,
		OraInizio:  17,
		DurataOre:  2,
		DataInizio: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DataFine:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TipoCorso:  models.CorsoRagazzi,
		Tariffa:    25,
		Note:       "gruppo A",
		SocioID:    &socio.ID,
	})
	require.NoError(t, err)
	require.Len(t, created, 4) // Tuesdays 3, 10, 17, 24

	serieID := *created[0].SerieID
	for _, p := range created {
		assert.Equal(t, serieID, *p.SerieID)
		assert.Equal(t, models.TipoCorso, p.TipoPrenotazione)
		assert.Equal(t, "17:00", p.OraInizio)
		assert.Equal(t, "19:00", p.OraFine)
		assert.Equal(t, models.StatoPagato, p.StatoPagamento)
		assert.Equal(t, "corso_ragazzi - Anna Verdi - gruppo A", p.Note)
		assert.Equal(t, time.Tuesday, p.Data.Weekday())
	}

	// Prepaid series carry one payment row per occurrence.
	pagamenti, err := env.db.ListPagamenti(ctx,
		time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, pagamenti, 4)
	for _, pg := range pagamenti {
		assert.Equal(t, 25.0, pg.Importo)
		assert.Equal(t, models.MetodoAbbonamento, pg.MetodoPagamentoTipo)
	}
}

func TestGenerateSerieAbbonamentoUnpaidThenPay(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	ospite := createTestOspite(t, env.db, "Luca", "Bianchi")
	created, err := env.serie.Generate(ctx, GenerateSerieInput{
		Campo:      2,
		Weekday:    time.Friday,
		OraInizio:  21,
		DurataOre:  1,
		DataInizio: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DataFine:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		TipoCorso:  models.AbbonamentoOspite,
		Tariffa:    20,
		OspiteID:   &ospite.ID,
	})
	require.NoError(t, err)
	require.Len(t, created, 3) // Fridays 6, 13, 20

	for _, p := range created {
		assert.Equal(t, models.TipoSingolare, p.TipoPrenotazione)
		assert.Equal(t, models.StatoDaPagare, p.StatoPagamento)
		assert.False(t, p.Diurno)
	}

	pagamenti, err := env.db.ListPagamenti(ctx,
		time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, pagamenti)

	serieID := *created[0].SerieID
	paid, err := env.serie.Pay(ctx, serieID, "POS", models.MetodoPOS)
	require.NoError(t, err)
	assert.Equal(t, 3, paid)

	// Paying again finds nothing outstanding.
	paid, err = env.serie.Pay(ctx, serieID, "POS", models.MetodoPOS)
	require.NoError(t, err)
	assert.Zero(t, paid)
}

func TestGenerateSerieValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	socio := createTestSocio(t, env.db, "Anna", "Verdi", models.SocioNonAgonista)
	valid := GenerateSerieInput{
		Campo:      1,
		Weekday:    time.Monday,
		OraInizio:  9,
		DurataOre:  1,
		DataInizio: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DataFine:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TipoCorso:  models.CorsoAdulti,
		Tariffa:    20,
		SocioID:    &socio.ID,
	}

	in := valid
	in.OraInizio = 22
	in.DurataOre = 2 // would end at 24, past closing
	_, err := env.serie.Generate(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidHour)

	in = valid
	in.DataFine = in.DataInizio.AddDate(0, 0, -1)
	_, err = env.serie.Generate(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	in = valid
	in.SocioID = nil
	_, err = env.serie.Generate(ctx, in)
	assert.ErrorIs(t, err, ErrMissingCliente)
}

func TestSerieListGroupsLegacyNotes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	socio := createTestSocio(t, env.db, "Anna", "Verdi", models.SocioNonAgonista)
	_, err := env.serie.Generate(ctx, GenerateSerieInput{
		Campo:      1,
		Weekday:    time.Monday,
		OraInizio:  9,
		DurataOre:  1,
		DataInizio: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DataFine:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TipoCorso:  models.CorsoAdulti,
		Tariffa:    20,
		SocioID:    &socio.ID,
	})
	require.NoError(t, err)

	// Plain bookings without the note shape stay out of the list.
	for _, day := range []int{4, 11} {
		createSpanning(t, env.db, &socio.ID, nil,
			time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC), 18, 19, 20, models.StatoPagato)
	}

	// Legacy rows: no serie_id, grouped only by an identical note.
	for _, day := range []int{5, 12} {
		p := &models.Prenotazione{
			Campo: 2, Data: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			OraInizio: "18:00", OraFine: "19:00",
			TipoPrenotazione: models.TipoLezione, TipoCampo: models.CampoScoperto,
			Diurno: true, SocioID: &socio.ID, Importo: 30,
			StatoPagamento: models.StatoPagato,
			Note:           "lezioni_private - Anna Verdi - recupero",
		}
		require.NoError(t, env.db.CreatePrenotazione(ctx, p))
	}

	summaries, err := env.serie.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.NotEmpty(t, summaries[0].SerieID)
	assert.Equal(t, 2, summaries[0].Occorrenze) // Mondays 2 and 9
	assert.Equal(t, summaries[0].Occorrenze, summaries[0].Pagate)

	legacy := summaries[1]
	assert.Empty(t, legacy.SerieID)
	assert.Equal(t, 2, legacy.Occorrenze)
	assert.Equal(t, "lezioni_private - Anna Verdi - recupero", legacy.Note)
	assert.Equal(t, 60.0, legacy.ImportoTotale)
}

func TestSerieDeleteCascades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	socio := createTestSocio(t, env.db, "Anna", "Verdi", models.SocioNonAgonista)
	created, err := env.serie.Generate(ctx, GenerateSerieInput{
		Campo:      1,
		Weekday:    time.Monday,
		OraInizio:  9,
		DurataOre:  1,
		DataInizio: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DataFine:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TipoCorso:  models.CorsoAdulti,
		Tariffa:    20,
		SocioID:    &socio.ID,
	})
	require.NoError(t, err)

	deleted, err := env.serie.Delete(ctx, *created[0].SerieID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(created)), deleted)

	rows, err := env.db.GetSeriePrenotazioni(ctx, *created[0].SerieID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

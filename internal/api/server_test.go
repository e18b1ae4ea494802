package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tennisclub/internal/config"
	"tennisclub/internal/database"
	"tennisclub/internal/events"
	"tennisclub/internal/export"
	"tennisclub/internal/models"
	"tennisclub/internal/repository"
	"tennisclub/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "test-key"
	testExtra  = "test-extra"
)

type apiEnv struct {
	srv   *HTTPServer
	db    *database.DB
	state *repository.MemoryStateRepository
}

func setupAPI(t *testing.T, authEnabled bool) *apiEnv {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.APIConfig{Enabled: true}
	cfg.HTTP.Enabled = true
	cfg.HTTP.Port = 0
	cfg.Auth.Enabled = authEnabled
	cfg.Auth.HeaderAPIKey = "x-api-key"
	cfg.Auth.HeaderExtra = "x-api-extra"
	cfg.Auth.APIKeys = []config.APIClientKey{
		{Name: "test", Key: testAPIKey, Extra: testExtra},
		{Name: "readonly", Key: "ro-key", Extra: testExtra, Permissions: []string{"read:prenotazioni"}},
	}

	eventBus := events.NewEventBus()
	pricing := service.NewPricingService(db, config.PricingConfig{FallbackSocio: 15, FallbackOspite: 20}, &logger)
	bookings := service.NewBookingService(db, pricing, eventBus, &logger)
	insoluti := service.NewInsolutiService(db, eventBus, &logger)
	state := repository.NewMemoryStateRepository()

	srv := NewHTTPServer(cfg, Services{
		Bookings: bookings,
		Serie:    service.NewSerieService(db, eventBus, &logger),
		Insoluti: insoluti,
		Reports:  service.NewReportService(db, &logger),
		Registry: service.NewRegistryService(db, &logger),
		Pricing:  pricing,
		Exporter: export.NewExporter(t.TempDir(), bookings, insoluti, &logger),
	}, state, &logger)

	return &apiEnv{srv: srv, db: db, state: state}
}

func (e *apiEnv) request(t *testing.T, method, path string, body any, key, extra string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if key != "" {
		req.Header.Set("x-api-key", key)
		req.Header.Set("x-api-extra", extra)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	env := setupAPI(t, true)

	rec := env.request(t, http.MethodGet, "/api/v1/settimana", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/settimana", nil, testAPIKey, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/settimana", nil, testAPIKey, testExtra)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthPermissions(t *testing.T) {
	env := setupAPI(t, true)

	// The readonly key may read bookings but not write them.
	rec := env.request(t, http.MethodGet, "/api/v1/settimana", nil, "ro-key", testExtra)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/v1/prenotazioni",
		map[string]any{"data": "2024-01-10"}, "ro-key", testExtra)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/dashboard", nil, "ro-key", testExtra)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreatePrenotazioneEndpoint(t *testing.T) {
	env := setupAPI(t, false)
	ctx := context.Background()

	socio := &models.Socio{Nome: "Mario", Cognome: "Rossi", TipoSocio: models.SocioAgonista, Attivo: true}
	require.NoError(t, env.db.CreateSocio(ctx, socio))

	body := map[string]any{
		"data":              "2024-01-10",
		"ore":               []int{9},
		"campo":             1,
		"tipo_prenotazione": models.TipoSingolare,
		"socio_id":          socio.ID,
	}
	rec := env.request(t, http.MethodPost, "/api/v1/prenotazioni", body, "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Prenotazioni []*models.Prenotazione `json:"prenotazioni"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Prenotazioni, 1)
	assert.Equal(t, 15.0, resp.Prenotazioni[0].Importo)

	// Same slot again conflicts.
	rec = env.request(t, http.MethodPost, "/api/v1/prenotazioni", body, "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The week view now carries the booking.
	rec = env.request(t, http.MethodGet, "/api/v1/settimana?data=2024-01-10", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var week service.WeekView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Len(t, week.Prenotazioni, 1)
	assert.Equal(t, "2024-01-08", week.Monday.Format(models.DateFormat))
}

func TestCreatePrenotazioneValidationErrors(t *testing.T) {
	env := setupAPI(t, false)

	rec := env.request(t, http.MethodPost, "/api/v1/prenotazioni",
		map[string]any{"data": "not-a-date"}, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/v1/prenotazioni", map[string]any{
		"data":              "2024-01-10",
		"ore":               []int{7},
		"campo":             1,
		"tipo_prenotazione": models.TipoSingolare,
		"socio_id":          "whatever",
	}, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsolutiSettleEndpoint(t *testing.T) {
	env := setupAPI(t, false)
	ctx := context.Background()

	socio := &models.Socio{Nome: "Mario", Cognome: "Rossi", TipoSocio: models.SocioAgonista, Attivo: true}
	require.NoError(t, env.db.CreateSocio(ctx, socio))

	date := time.Now().AddDate(0, 0, -1)
	p := &models.Prenotazione{
		Campo: 1, Data: date,
		OraInizio: "09:00", OraFine: "10:00",
		TipoPrenotazione: models.TipoSingolare, TipoCampo: models.CampoScoperto,
		Diurno: true, SocioID: &socio.ID, Importo: 15,
		StatoPagamento: models.StatoDaPagare,
	}
	require.NoError(t, env.db.CreatePrenotazione(ctx, p))

	rec := env.request(t, http.MethodGet, "/api/v1/insoluti", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Insoluti []*service.InsolutoGroup `json:"insoluti"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Insoluti, 1)
	assert.Equal(t, 15.0, list.Insoluti[0].Totale)

	rec = env.request(t, http.MethodPost, "/api/v1/insoluti/pagamento", map[string]any{
		"prenotazioni": []string{p.ID},
		"metodo":       "Contanti",
		"metodo_tipo":  models.MetodoContanti,
	}, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.db.GetPrenotazione(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatoPagato, got.StatoPagamento)
}

func TestSerieEndpoints(t *testing.T) {
	env := setupAPI(t, false)
	ctx := context.Background()

	socio := &models.Socio{Nome: "Anna", Cognome: "Verdi", TipoSocio: models.SocioNonAgonista, Attivo: true}
	require.NoError(t, env.db.CreateSocio(ctx, socio))

	rec := env.request(t, http.MethodPost, "/api/v1/serie", map[string]any{
		"campo":            1,
		"giorno_settimana": int(time.Monday),
		"ora_inizio":       9,
		"durata_ore":       1,
		"data_inizio":      "2025-06-01",
		"data_fine":        "2025-06-30",
		"tipo_corso":       models.CorsoAdulti,
		"tariffa":          20,
		"socio_id":         socio.ID,
	}, "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Prenotazioni []*models.Prenotazione `json:"prenotazioni"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Prenotazioni, 5) // Mondays 2, 9, 16, 23, 30
	serieID := *created.Prenotazioni[0].SerieID

	rec = env.request(t, http.MethodGet, "/api/v1/serie", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries struct {
		Serie []*service.SerieSummary `json:"serie"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries.Serie, 1)
	assert.Equal(t, 5, summaries.Serie[0].Occorrenze)

	rec = env.request(t, http.MethodDelete, "/api/v1/serie/"+serieID, nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMeteoEndpointDegradesToEmpty(t *testing.T) {
	env := setupAPI(t, false)

	rec := env.request(t, http.MethodGet, "/api/v1/meteo", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "giorni")

	forecast := &models.Forecast{
		Latitude:  44.4056,
		Longitude: 8.9176,
		FetchedAt: time.Now(),
		Days: []models.ForecastDay{
			{Data: "2025-06-10", WeatherCode: 0, Descrizione: "Sereno", TempMax: 28, TempMin: 19},
		},
	}
	require.NoError(t, env.state.SetForecast(context.Background(), forecast, time.Hour))

	rec = env.request(t, http.MethodGet, "/api/v1/meteo", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Forecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Days, 1)
	assert.Equal(t, "Sereno", got.Days[0].Descrizione)
}

func TestLogoRoundTrip(t *testing.T) {
	env := setupAPI(t, false)

	rec := env.request(t, http.MethodGet, "/api/v1/logo", nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/logo", bytes.NewReader([]byte("fake-png-bytes")))
	req.Header.Set("Content-Type", "image/png")
	put := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(put, req)
	require.Equal(t, http.StatusOK, put.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/logo", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "fake-png-bytes", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	env := setupAPI(t, false)
	env.srv.cfg.RateLimit.RPS = 1
	env.srv.cfg.RateLimit.Burst = 2

	var limited bool
	for i := 0; i < 5; i++ {
		rec := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/dashboard?n=%d", i), nil, "", "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
}

package domain

import (
	"context"
	"time"

	"tennisclub/internal/database"
	"tennisclub/internal/models"
)

type Repository interface {
	GetPrenotazione(ctx context.Context, id string) (*models.Prenotazione, error)
	GetPrenotazioniByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prenotazione, error)
	SlotOccupied(ctx context.Context, data time.Time, oraInizio string, campo int) (bool, error)
	CreatePrenotazione(ctx context.Context, p *models.Prenotazione) error
	CreatePrenotazioniBatch(ctx context.Context, prenotazioni []*models.Prenotazione) error
	SetPioggia(ctx context.Context, id string, cancelled bool) error
	DeletePrenotazione(ctx context.Context, id string) error
	SplitPrenotazione(ctx context.Context, id string, targetHour int, rain bool) ([]*models.Prenotazione, error)

	CreateSocio(ctx context.Context, s *models.Socio) error
	GetSocio(ctx context.Context, id string) (*models.Socio, error)
	ListSoci(ctx context.Context, onlyActive bool) ([]*models.Socio, error)
	ListMaestri(ctx context.Context) ([]*models.Socio, error)
	UpdateSocio(ctx context.Context, s *models.Socio) error
	DeactivateSocio(ctx context.Context, id string) error

	CreateOspite(ctx context.Context, o *models.Ospite) error
	GetOspite(ctx context.Context, id string) (*models.Ospite, error)
	ListOspiti(ctx context.Context) ([]*models.Ospite, error)
	UpdateOspite(ctx context.Context, o *models.Ospite) error
	DeleteOspite(ctx context.Context, id string) error

	CreateTariffa(ctx context.Context, t *models.Tariffa) error
	UpdateTariffa(ctx context.Context, t *models.Tariffa) error
	DeactivateTariffa(ctx context.Context, id string) error
	ListTariffe(ctx context.Context, onlyActive bool) ([]*models.Tariffa, error)
	ResolveTariffa(ctx context.Context, tipoPrenotazione, tipoCampo string, diurno, soci bool) (*models.Tariffa, error)

	CreatePagamento(ctx context.Context, p *models.Pagamento) error
	ListPagamenti(ctx context.Context, from, to time.Time) ([]*database.PagamentoCliente, error)
	ListInsoluti(ctx context.Context, until time.Time) ([]*models.Prenotazione, error)
	SettlePrenotazioni(ctx context.Context, allocations []database.PaymentAllocation, metodo, metodoTipo, note string) error

	CreateSerie(ctx context.Context, prenotazioni []*models.Prenotazione, pagamenti []*models.Pagamento) error
	ListSerieRows(ctx context.Context) ([]*models.Prenotazione, error)
	GetSeriePrenotazioni(ctx context.Context, serieID string) ([]*models.Prenotazione, error)
	DeleteSerie(ctx context.Context, serieID string) (int64, error)
	PaySerie(ctx context.Context, serieID, metodo, metodoTipo string) (int, error)

	ListPrenotazioniOspitiPagate(ctx context.Context, from, to time.Time) ([]*models.Prenotazione, error)
	CountSociAttivi(ctx context.Context) (int, error)
	CountPrenotazioniByDate(ctx context.Context, date time.Time) (int, error)
	InsolutiTotals(ctx context.Context) (int, float64, error)
}

// StateRepository is the volatile side store: weather-forecast cache
// and the club logo asset. Redis primary with memory failover.
type StateRepository interface {
	GetForecast(ctx context.Context) (*models.Forecast, error)
	SetForecast(ctx context.Context, forecast *models.Forecast, ttl time.Duration) error
	GetLogo(ctx context.Context) (*models.Asset, error)
	SetLogo(ctx context.Context, asset *models.Asset) error
	Ping(ctx context.Context) error
	Close() error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ForecastProvider fetches a fresh daily forecast from the upstream
// weather API.
type ForecastProvider interface {
	FetchForecast(ctx context.Context) (*models.Forecast, error)
}

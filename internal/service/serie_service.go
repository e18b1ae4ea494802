package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tennisclub/internal/domain"
	"tennisclub/internal/events"
	"tennisclub/internal/metrics"
	"tennisclub/internal/models"
)

// SerieService generates and manages recurring booking series: weekly
// courses, private lessons and court subscriptions.
type SerieService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewSerieService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *SerieService {
	return &SerieService{repo: repo, eventBus: eventBus, logger: logger}
}

// GenerateSerieInput describes a weekly recurrence. Tariffa is the
// flat amount of each occurrence, with no proration for partial weeks.
type GenerateSerieInput struct {
	Campo      int
	Weekday    time.Weekday
	OraInizio  int
	DurataOre  int
	DataInizio time.Time
	DataFine   time.Time
	TipoCorso  string
	Tariffa    float64
	Note       string
	SocioID    *string
	OspiteID   *string
}

func (in *GenerateSerieInput) validate() error {
	if in.Campo < 1 || in.Campo > models.Courts {
		return ErrInvalidCampo
	}
	if in.DurataOre < 1 ||
		!models.ValidSlotHour(in.OraInizio) ||
		in.OraInizio+in.DurataOre > models.LastSlotHour {
		return ErrInvalidHour
	}
	if in.DataFine.Before(in.DataInizio) {
		return ErrInvalidPeriod
	}
	if (in.SocioID == nil) == (in.OspiteID == nil) {
		return ErrMissingCliente
	}
	if in.Tariffa < 0 {
		return ErrInvalidImporto
	}
	return nil
}

// Occurrences enumerates the dates of weekday inside [start, end]:
// the first occurrence on or after start, then 7-day steps while not
// past end.
func Occurrences(start, end time.Time, weekday time.Weekday) []time.Time {
	d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	d = d.AddDate(0, 0, (int(weekday)-int(d.Weekday())+7)%7)
	var dates []time.Time
	for !d.After(end) {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 7)
	}
	return dates
}

// Generate creates every occurrence of the series in one transaction.
// Occurrences share a serie_id and the legacy
// "<tipoCorso> - <nome cognome> - <note>" note. Subscription kinds
// stay unpaid until settled; course and lesson kinds are prepaid, one
// payment row per occurrence.
func (s *SerieService) Generate(ctx context.Context, in GenerateSerieInput) ([]*models.Prenotazione, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	cliente, err := s.clienteName(ctx, in.SocioID, in.OspiteID)
	if err != nil {
		return nil, err
	}

	dates := Occurrences(in.DataInizio, in.DataFine, in.Weekday)
	if len(dates) == 0 {
		return nil, ErrEmptySerie
	}

	serieID := uuid.NewString()
	note := strings.Join([]string{in.TipoCorso, cliente, in.Note}, models.SeriesNoteSeparator)
	tipo := models.TipoForCorso(in.TipoCorso)
	stato := models.StatoPagato
	if models.IsAbbonamento(in.TipoCorso) {
		stato = models.StatoDaPagare
	}

	prenotazioni := make([]*models.Prenotazione, 0, len(dates))
	var pagamenti []*models.Pagamento
	now := time.Now()
	for _, date := range dates {
		p := &models.Prenotazione{
			ID:               uuid.NewString(),
			Data:             date,
			OraInizio:        models.HourLabel(in.OraInizio),
			OraFine:          models.HourLabel(in.OraInizio + in.DurataOre),
			Campo:            in.Campo,
			TipoCampo:        models.CampoScoperto,
			TipoPrenotazione: tipo,
			Diurno:           models.IsDiurno(in.OraInizio),
			SocioID:          in.SocioID,
			OspiteID:         in.OspiteID,
			Importo:          models.RoundCents(in.Tariffa),
			StatoPagamento:   stato,
			SerieID:          &serieID,
			Note:             note,
		}
		prenotazioni = append(prenotazioni, p)

		if stato == models.StatoPagato {
			pagamenti = append(pagamenti, &models.Pagamento{
				PrenotazioneID:      p.ID,
				Importo:             p.Importo,
				DataPagamento:       now,
				MetodoPagamento:     "Abbonamento",
				MetodoPagamentoTipo: models.MetodoAbbonamento,
				Note:                note,
			})
		}
	}

	if err := s.repo.CreateSerie(ctx, prenotazioni, pagamenti); err != nil {
		return nil, err
	}

	for _, p := range prenotazioni {
		metrics.IncBooking(p.TipoPrenotazione)
	}
	s.publishSerieEvent(events.EventSerieCreated, serieID, len(prenotazioni))
	s.logger.Info().
		Str("serie_id", serieID).
		Str("tipo_corso", in.TipoCorso).
		Int("occorrenze", len(prenotazioni)).
		Msg("Serie generated")
	return prenotazioni, nil
}

// SerieSummary is one series as shown on the management screen.
type SerieSummary struct {
	SerieID          string       `json:"serie_id,omitempty"`
	Note             string       `json:"note"`
	Cliente          string       `json:"cliente"`
	TipoPrenotazione string       `json:"tipo_prenotazione"`
	Campo            int          `json:"campo"`
	Weekday          time.Weekday `json:"weekday"`
	OraInizio        string       `json:"ora_inizio"`
	OraFine          string       `json:"ora_fine"`
	PrimaData        time.Time    `json:"prima_data"`
	UltimaData       time.Time    `json:"ultima_data"`
	Occorrenze       int          `json:"occorrenze"`
	Pagate           int          `json:"pagate"`
	ImportoTotale    float64      `json:"importo_totale"`
}

// List groups series rows into summaries. Rows carrying a serie_id
// group by it; legacy rows fall back to their identical note string.
func (s *SerieService) List(ctx context.Context) ([]*SerieSummary, error) {
	rows, err := s.repo.ListSerieRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list serie: %w", err)
	}

	groups := make(map[string]*SerieSummary)
	var order []string
	for _, p := range rows {
		key := "note:" + p.Note
		if p.SerieID != nil {
			key = *p.SerieID
		}
		sum, ok := groups[key]
		if !ok {
			sum = &SerieSummary{
				Note:             p.Note,
				Cliente:          p.ClienteLabel(),
				TipoPrenotazione: p.TipoPrenotazione,
				Campo:            p.Campo,
				Weekday:          p.Data.Weekday(),
				OraInizio:        p.OraInizio,
				OraFine:          p.OraFine,
				PrimaData:        p.Data,
				UltimaData:       p.Data,
			}
			if p.SerieID != nil {
				sum.SerieID = *p.SerieID
			}
			groups[key] = sum
			order = append(order, key)
		}
		if p.Data.Before(sum.PrimaData) {
			sum.PrimaData = p.Data
		}
		if p.Data.After(sum.UltimaData) {
			sum.UltimaData = p.Data
		}
		sum.Occorrenze++
		if p.StatoPagamento == models.StatoPagato {
			sum.Pagate++
		}
		sum.ImportoTotale = models.RoundCents(sum.ImportoTotale + p.Importo)
	}

	summaries := make([]*SerieSummary, 0, len(order))
	for _, key := range order {
		summaries = append(summaries, groups[key])
	}
	return summaries, nil
}

// Get returns every occurrence of one series.
func (s *SerieService) Get(ctx context.Context, serieID string) ([]*models.Prenotazione, error) {
	return s.repo.GetSeriePrenotazioni(ctx, serieID)
}

// Delete removes a whole series; payments cascade with the bookings.
func (s *SerieService) Delete(ctx context.Context, serieID string) (int64, error) {
	deleted, err := s.repo.DeleteSerie(ctx, serieID)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.publishSerieEvent(events.EventSerieDeleted, serieID, int(deleted))
	}
	return deleted, nil
}

// Pay settles every unpaid occurrence of a series at its own amount.
func (s *SerieService) Pay(ctx context.Context, serieID, metodo, metodoTipo string) (int, error) {
	if !models.ValidMetodoTipo(metodoTipo) {
		return 0, ErrInvalidMetodo
	}
	paid, err := s.repo.PaySerie(ctx, serieID, metodo, metodoTipo)
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		metrics.IncPayment(metodoTipo)
	}
	return paid, nil
}

func (s *SerieService) clienteName(ctx context.Context, socioID, ospiteID *string) (string, error) {
	if socioID != nil {
		socio, err := s.repo.GetSocio(ctx, *socioID)
		if err != nil {
			return "", err
		}
		return socio.FullName(), nil
	}
	ospite, err := s.repo.GetOspite(ctx, *ospiteID)
	if err != nil {
		return "", err
	}
	return ospite.FullName(), nil
}

func (s *SerieService) publishSerieEvent(eventType, serieID string, count int) {
	if s.eventBus == nil {
		return
	}
	payload := map[string]interface{}{
		"serie_id":   serieID,
		"occorrenze": count,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish serie event")
	}
}

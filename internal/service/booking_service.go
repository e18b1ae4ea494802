package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tennisclub/internal/database"
	"tennisclub/internal/domain"
	"tennisclub/internal/events"
	"tennisclub/internal/metrics"
	"tennisclub/internal/models"
)

// BookingService implements the weekly grid and every booking
// mutation: single and multi-slot creation, whole deletion, and the
// split paths used when one hour of a spanning booking is deleted or
// rain-cancelled.
type BookingService struct {
	repo     domain.Repository
	pricing  *PricingService
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, pricing *PricingService, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		pricing:  pricing,
		eventBus: eventBus,
		logger:   logger,
	}
}

// WeekView is the data behind the 7-day booking grid: the Monday-start
// week, its slot hours and every booking of both courts in the range.
type WeekView struct {
	Monday       time.Time              `json:"monday"`
	Days         []time.Time            `json:"days"`
	Hours        []int                  `json:"hours"`
	Prenotazioni []*models.Prenotazione `json:"prenotazioni"`
}

// GetWeek loads the week containing anyDay.
func (s *BookingService) GetWeek(ctx context.Context, anyDay time.Time) (*WeekView, error) {
	monday := models.WeekStart(anyDay)
	sunday := monday.AddDate(0, 0, 6)
	prenotazioni, err := s.repo.GetPrenotazioniByDateRange(ctx, monday, sunday)
	if err != nil {
		return nil, fmt.Errorf("failed to load week: %w", err)
	}
	return &WeekView{
		Monday:       monday,
		Days:         models.WeekDays(monday),
		Hours:        models.SlotHours(),
		Prenotazioni: prenotazioni,
	}, nil
}

// Occupant resolves which booking, if any, covers the (date, hour,
// court) cell. The second return is true when the cell is a
// continuation of a booking started at an earlier hour.
func Occupant(prenotazioni []*models.Prenotazione, date time.Time, hour, campo int) (*models.Prenotazione, bool) {
	day := date.Format(models.DateFormat)
	for _, p := range prenotazioni {
		if p.Campo != campo || p.Data.Format(models.DateFormat) != day {
			continue
		}
		start, end := p.StartHour(), models.HourOf(p.OraFine)
		if hour >= start && hour < end {
			return p, hour != start
		}
	}
	return nil, false
}

// CreateBookingInput describes one or more slots booked together on
// the same day and court. Importo, when set, is the per-hour manual
// amount; otherwise the tariff is resolved per slot.
type CreateBookingInput struct {
	Data             time.Time
	Ore              []int
	Campo            int
	TipoCampo        string
	TipoPrenotazione string
	SocioID          *string
	OspiteID         *string
	Importo          *float64
	Pagato           bool
	Metodo           string
	MetodoTipo       string
	Note             string
}

func (in *CreateBookingInput) validate() error {
	if len(in.Ore) == 0 {
		return ErrInvalidHour
	}
	for _, h := range in.Ore {
		if !models.ValidSlotHour(h) {
			return ErrInvalidHour
		}
	}
	if in.Campo < 1 || in.Campo > models.Courts {
		return ErrInvalidCampo
	}
	if !models.ValidTipoPrenotazione(in.TipoPrenotazione) {
		return ErrInvalidTipo
	}
	if (in.SocioID == nil) == (in.OspiteID == nil) {
		return ErrMissingCliente
	}
	if in.Importo != nil && *in.Importo < 0 {
		return ErrInvalidImporto
	}
	if in.Pagato && !models.ValidMetodoTipo(in.MetodoTipo) {
		return ErrInvalidMetodo
	}
	return nil
}

// Create books every requested hour as its own one-hour row, all in
// one transaction when more than one slot is selected. Slots are
// pre-checked for availability; the unique index remains the
// authoritative guard and its violation surfaces as ErrSlotTaken.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) ([]*models.Prenotazione, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	tipoCampo := in.TipoCampo
	if tipoCampo == "" {
		tipoCampo = models.CampoScoperto
	}

	prenotazioni := make([]*models.Prenotazione, 0, len(in.Ore))
	for _, hour := range in.Ore {
		occupied, err := s.repo.SlotOccupied(ctx, in.Data, models.HourLabel(hour), in.Campo)
		if err != nil {
			return nil, err
		}
		if occupied {
			return nil, database.ErrSlotTaken
		}

		importo := 0.0
		if in.Importo != nil {
			importo = *in.Importo
		} else {
			importo, err = s.pricing.PrezzoOrario(ctx, in.TipoPrenotazione, hour, in.SocioID != nil)
			if err != nil {
				return nil, err
			}
		}

		prenotazioni = append(prenotazioni, &models.Prenotazione{
			Data:             in.Data,
			OraInizio:        models.HourLabel(hour),
			OraFine:          models.HourLabel(hour + 1),
			Campo:            in.Campo,
			TipoCampo:        tipoCampo,
			TipoPrenotazione: in.TipoPrenotazione,
			Diurno:           models.IsDiurno(hour),
			SocioID:          in.SocioID,
			OspiteID:         in.OspiteID,
			Importo:          models.RoundCents(importo),
			StatoPagamento:   models.StatoDaPagare,
			Note:             in.Note,
		})
	}

	if len(prenotazioni) == 1 {
		if err := s.repo.CreatePrenotazione(ctx, prenotazioni[0]); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.CreatePrenotazioniBatch(ctx, prenotazioni); err != nil {
			return nil, err
		}
	}

	if in.Pagato {
		allocations := make([]database.PaymentAllocation, len(prenotazioni))
		for i, p := range prenotazioni {
			allocations[i] = database.PaymentAllocation{PrenotazioneID: p.ID, Importo: p.Importo}
		}
		if err := s.repo.SettlePrenotazioni(ctx, allocations, in.Metodo, in.MetodoTipo, in.Note); err != nil {
			return nil, err
		}
		for _, p := range prenotazioni {
			p.StatoPagamento = models.StatoPagato
		}
		metrics.IncPayment(in.MetodoTipo)
	}

	for _, p := range prenotazioni {
		metrics.IncBooking(p.TipoPrenotazione)
		s.publishBookingEvent(events.EventBookingCreated, p)
	}
	return prenotazioni, nil
}

// Get returns one booking with its joined client fields.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Prenotazione, error) {
	return s.repo.GetPrenotazione(ctx, id)
}

// Delete removes a whole booking regardless of how many hours it spans.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetPrenotazione(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePrenotazione(ctx, id); err != nil {
		return err
	}
	s.publishBookingEvent(events.EventBookingDeleted, p)
	return nil
}

// DeleteHour removes the [hour, hour+1) slice of a booking. A one-hour
// booking is deleted outright; a spanning one is split into the
// fragments before and after the hour, prorated to cents.
func (s *BookingService) DeleteHour(ctx context.Context, id string, hour int) ([]*models.Prenotazione, error) {
	p, err := s.repo.GetPrenotazione(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.DurationHours() <= 1 {
		if hour != p.StartHour() {
			return nil, database.ErrHourOutsideBooking
		}
		if err := s.repo.DeletePrenotazione(ctx, id); err != nil {
			return nil, err
		}
		s.publishBookingEvent(events.EventBookingDeleted, p)
		return nil, nil
	}

	fragments, err := s.repo.SplitPrenotazione(ctx, id, hour, false)
	if err != nil {
		return nil, err
	}
	s.publishBookingEvent(events.EventBookingSplit, p)
	return fragments, nil
}

// RainCancelHour flags the [hour, hour+1) slice of a booking as
// cancelled for rain. A spanning booking is split around the hour and
// the hour recreated as a one-hour rain-cancelled row.
func (s *BookingService) RainCancelHour(ctx context.Context, id string, hour int) ([]*models.Prenotazione, error) {
	p, err := s.repo.GetPrenotazione(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.DurationHours() <= 1 {
		if hour != p.StartHour() {
			return nil, database.ErrHourOutsideBooking
		}
		if err := s.repo.SetPioggia(ctx, id, true); err != nil {
			return nil, err
		}
		s.publishBookingEvent(events.EventBookingRained, p)
		return []*models.Prenotazione{p}, nil
	}

	fragments, err := s.repo.SplitPrenotazione(ctx, id, hour, true)
	if err != nil {
		return nil, err
	}
	s.publishBookingEvent(events.EventBookingRained, p)
	return fragments, nil
}

// RestorePioggia clears the rain-cancellation flag of a booking.
func (s *BookingService) RestorePioggia(ctx context.Context, id string) error {
	return s.repo.SetPioggia(ctx, id, false)
}

func (s *BookingService) publishBookingEvent(eventType string, p *models.Prenotazione) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		PrenotazioneID: p.ID,
		Campo:          p.Campo,
		Data:           p.Data,
		OraInizio:      p.OraInizio,
		OraFine:        p.OraFine,
		Cliente:        p.ClienteLabel(),
		Importo:        p.Importo,
		StatoPagamento: p.StatoPagamento,
	}
	if p.SerieID != nil {
		payload.SerieID = *p.SerieID
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish booking event")
	}
}

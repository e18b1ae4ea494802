package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"tennisclub/internal/database"
	"tennisclub/internal/domain"
	"tennisclub/internal/events"
	"tennisclub/internal/metrics"
	"tennisclub/internal/models"
)

// InsolutiService lists outstanding debts grouped per client and
// settles them, prorating a partial amount across the selected
// bookings.
type InsolutiService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewInsolutiService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *InsolutiService {
	return &InsolutiService{repo: repo, eventBus: eventBus, logger: logger}
}

// InsolutoGroup is one client's outstanding position.
type InsolutoGroup struct {
	Cognome      string                 `json:"cognome"`
	Nome         string                 `json:"nome"`
	TipoCliente  string                 `json:"tipo_cliente"`
	Totale       float64                `json:"totale"`
	Prenotazioni []*models.Prenotazione `json:"prenotazioni"`
}

// List returns unpaid, non-rained bookings up to today, grouped by
// (cognome, nome, client kind) with a running total per group.
func (s *InsolutiService) List(ctx context.Context, until time.Time) ([]*InsolutoGroup, error) {
	unpaid, err := s.repo.ListInsoluti(ctx, until)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*InsolutoGroup)
	var order []string
	for _, p := range unpaid {
		tipoCliente := "socio"
		if p.IsOspite() {
			tipoCliente = "ospite"
		}
		key := p.CognomeCliente + "|" + p.NomeCliente + "|" + tipoCliente
		g, ok := groups[key]
		if !ok {
			g = &InsolutoGroup{
				Cognome:     p.CognomeCliente,
				Nome:        p.NomeCliente,
				TipoCliente: tipoCliente,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Prenotazioni = append(g.Prenotazioni, p)
		g.Totale = models.RoundCents(g.Totale + p.Importo)
	}

	result := make([]*InsolutoGroup, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key])
	}
	return result, nil
}

// Settle records payments against the selected unpaid bookings in one
// transaction. With no amount, or an amount equal to the summed debt,
// each booking is settled at its own amount; a different amount is
// distributed proportionally to each booking's share of the debt,
// cent-rounded with the remainder on the last one.
func (s *InsolutiService) Settle(ctx context.Context, ids []string, importo *float64, metodo, metodoTipo, note string) ([]database.PaymentAllocation, error) {
	if len(ids) == 0 {
		return nil, ErrNothingToPay
	}
	if !models.ValidMetodoTipo(metodoTipo) {
		return nil, ErrInvalidMetodo
	}
	if importo != nil && *importo < 0 {
		return nil, ErrInvalidImporto
	}

	debts := make([]float64, 0, len(ids))
	var totale float64
	for _, id := range ids {
		p, err := s.repo.GetPrenotazione(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.StatoPagamento == models.StatoPagato {
			return nil, ErrAlreadyPaid
		}
		debts = append(debts, p.Importo)
		totale += p.Importo
	}
	totale = models.RoundCents(totale)

	allocations := make([]database.PaymentAllocation, len(ids))
	switch {
	case importo == nil || math.Abs(*importo-totale) < 0.005:
		for i, id := range ids {
			allocations[i] = database.PaymentAllocation{PrenotazioneID: id, Importo: models.RoundCents(debts[i])}
		}
	case len(ids) == 1:
		allocations[0] = database.PaymentAllocation{PrenotazioneID: ids[0], Importo: models.RoundCents(*importo)}
	default:
		shares := models.Prorate(*importo, debts)
		for i, id := range ids {
			allocations[i] = database.PaymentAllocation{PrenotazioneID: id, Importo: shares[i]}
		}
	}

	if err := s.repo.SettlePrenotazioni(ctx, allocations, metodo, metodoTipo, note); err != nil {
		return nil, err
	}

	metrics.IncPayment(metodoTipo)
	s.publishSettled(allocations, metodoTipo)
	s.logger.Info().
		Int("prenotazioni", len(allocations)).
		Str("metodo", metodoTipo).
		Msg("Insoluti settled")
	return allocations, nil
}

func (s *InsolutiService) publishSettled(allocations []database.PaymentAllocation, metodo string) {
	if s.eventBus == nil {
		return
	}
	var totale float64
	for _, a := range allocations {
		totale += a.Importo
	}
	payload := map[string]interface{}{
		"prenotazioni": len(allocations),
		"totale":       models.RoundCents(totale),
		"metodo":       metodo,
	}
	if err := s.eventBus.PublishJSON(events.EventInsolutiSettled, payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish settlement event")
	}
}

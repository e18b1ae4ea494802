package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tennisclub/internal/config"
	"tennisclub/internal/database"
	"tennisclub/internal/domain"
	"tennisclub/internal/models"
)

// PricingService resolves the hourly price of a booking from the
// tariff table, falling back to the configured defaults when no
// active tariff matches.
type PricingService struct {
	repo           domain.Repository
	fallbackSocio  float64
	fallbackOspite float64
	logger         *zerolog.Logger
}

func NewPricingService(repo domain.Repository, cfg config.PricingConfig, logger *zerolog.Logger) *PricingService {
	return &PricingService{
		repo:           repo,
		fallbackSocio:  cfg.FallbackSocio,
		fallbackOspite: cfg.FallbackOspite,
		logger:         logger,
	}
}

// PrezzoOrario returns the hourly price for a booking of the given
// type starting at hour. Tariffs are matched on the open court and
// the daytime band of the start hour; the price is the tariff's
// hourly rate verbatim.
func (s *PricingService) PrezzoOrario(ctx context.Context, tipoPrenotazione string, hour int, socio bool) (float64, error) {
	tariffa, err := s.repo.ResolveTariffa(ctx, tipoPrenotazione, models.CampoScoperto, models.IsDiurno(hour), socio)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			fallback := s.fallbackOspite
			if socio {
				fallback = s.fallbackSocio
			}
			s.logger.Debug().
				Str("tipo", tipoPrenotazione).
				Int("ora", hour).
				Bool("socio", socio).
				Float64("prezzo", fallback).
				Msg("No matching tariff, using fallback price")
			return fallback, nil
		}
		return 0, err
	}
	return tariffa.PrezzoOra, nil
}

// ListTariffe returns the active tariffs for the booking dialog.
func (s *PricingService) ListTariffe(ctx context.Context) ([]*models.Tariffa, error) {
	return s.repo.ListTariffe(ctx, true)
}

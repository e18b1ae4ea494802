package weather

import (
	"context"
	"time"

	"tennisclub/internal/domain"
	"tennisclub/internal/events"
	"tennisclub/internal/metrics"
	"tennisclub/internal/models"
	"tennisclub/internal/worker"

	"github.com/rs/zerolog"
)

// Poller refreshes the cached forecast on an interval. A failed fetch
// is retried with backoff inside the tick; the previous cached
// forecast keeps serving until a refresh succeeds.
type Poller struct {
	provider  domain.ForecastProvider
	state     domain.StateRepository
	publisher domain.EventPublisher
	retry     worker.RetryPolicy
	interval  time.Duration
	cacheTTL  time.Duration
	logger    *zerolog.Logger
}

func NewPoller(provider domain.ForecastProvider, state domain.StateRepository, publisher domain.EventPublisher, interval time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Duration(models.DefaultWeatherPollMinutes) * time.Minute
	}
	return &Poller{
		provider:  provider,
		state:     state,
		publisher: publisher,
		retry: worker.RetryPolicy{
			MaxRetries:    3,
			InitialDelay:  2 * time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2,
		},
		interval: interval,
		// Cache survives a few missed polls.
		cacheTTL: 6 * interval,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled, refreshing immediately and
// then on every tick.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info().Dur("interval", p.interval).Msg("Weather poller started")

	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Weather poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	var forecast *models.Forecast
	var err error

	for attempt := 1; attempt <= p.retry.MaxRetries; attempt++ {
		forecast, err = p.provider.FetchForecast(ctx)
		if err == nil {
			break
		}
		p.logger.Warn().Err(err).Int("attempt", attempt).Msg("Forecast fetch failed")
		metrics.IncForecastFetch("error")

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retry.NextDelay(attempt)):
		}
	}
	if err != nil {
		p.logger.Error().Err(err).Msg("Forecast refresh gave up, serving stale cache")
		return
	}

	metrics.IncForecastFetch("ok")
	if err := p.state.SetForecast(ctx, forecast, p.cacheTTL); err != nil {
		p.logger.Error().Err(err).Msg("Failed to cache forecast")
		return
	}

	if p.publisher != nil {
		_ = p.publisher.PublishJSON(events.EventForecastUpdated, forecast)
	}
	p.logger.Debug().Int("days", len(forecast.Days)).Msg("Forecast refreshed")
}

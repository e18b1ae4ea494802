package repository

import (
	"context"
	"sync/atomic"
	"time"

	"tennisclub/internal/domain"
	"tennisclub/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStateRepository serves from the primary store (redis) and
// falls back to the in-memory store when the primary errors. After a
// minute it probes the primary again.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverStateRepository) shouldRetryPrimary() bool {
	return r.isDown.Load() && time.Since(r.lastCheck) > time.Minute
}

func (r *FailoverStateRepository) GetForecast(ctx context.Context) (*models.Forecast, error) {
	if !r.isDown.Load() {
		forecast, err := r.primary.GetForecast(ctx)
		if err == nil {
			return forecast, nil
		}
		r.markDown(err)
	}

	if r.shouldRetryPrimary() {
		forecast, err := r.primary.GetForecast(ctx)
		if err == nil {
			r.isDown.Store(false)
			return forecast, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetForecast(ctx)
}

func (r *FailoverStateRepository) SetForecast(ctx context.Context, forecast *models.Forecast, ttl time.Duration) error {
	if !r.isDown.Load() {
		err := r.primary.SetForecast(ctx, forecast, ttl)
		if err == nil {
			// Mirror into memory so a later redis outage still has
			// the last known forecast.
			_ = r.fallback.SetForecast(ctx, forecast, ttl)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetForecast(ctx, forecast, ttl)
}

func (r *FailoverStateRepository) GetLogo(ctx context.Context) (*models.Asset, error) {
	if !r.isDown.Load() {
		asset, err := r.primary.GetLogo(ctx)
		if err == nil {
			return asset, nil
		}
		r.markDown(err)
	}

	if r.shouldRetryPrimary() {
		asset, err := r.primary.GetLogo(ctx)
		if err == nil {
			r.isDown.Store(false)
			return asset, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetLogo(ctx)
}

func (r *FailoverStateRepository) SetLogo(ctx context.Context, asset *models.Asset) error {
	if !r.isDown.Load() {
		err := r.primary.SetLogo(ctx, asset)
		if err == nil {
			_ = r.fallback.SetLogo(ctx, asset)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetLogo(ctx, asset)
}

func (r *FailoverStateRepository) Ping(ctx context.Context) error {
	return r.primary.Ping(ctx)
}

func (r *FailoverStateRepository) Close() error {
	if err := r.primary.Close(); err != nil {
		return err
	}
	return r.fallback.Close()
}

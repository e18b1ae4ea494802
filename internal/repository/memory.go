package repository

import (
	"context"
	"sync"
	"time"

	"tennisclub/internal/models"
)

type MemoryStateRepository struct {
	mu              sync.RWMutex
	forecast        *models.Forecast
	forecastExpires time.Time
	logo            *models.Asset
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

func (r *MemoryStateRepository) GetForecast(ctx context.Context) (*models.Forecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.forecast == nil || time.Now().After(r.forecastExpires) {
		return nil, nil
	}
	return r.forecast, nil
}

func (r *MemoryStateRepository) SetForecast(ctx context.Context, forecast *models.Forecast, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forecast = forecast
	r.forecastExpires = time.Now().Add(ttl)
	return nil
}

func (r *MemoryStateRepository) GetLogo(ctx context.Context) (*models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logo, nil
}

func (r *MemoryStateRepository) SetLogo(ctx context.Context, asset *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logo = asset
	return nil
}

func (r *MemoryStateRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryStateRepository) Close() error {
	return nil
}

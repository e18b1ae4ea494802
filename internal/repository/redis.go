package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tennisclub/internal/config"
	"tennisclub/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	forecastKey = "meteo:forecast"
	logoKey     = "club:logo"
)

type RedisStateRepository struct {
	client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

func (r *RedisStateRepository) GetForecast(ctx context.Context) (*models.Forecast, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, forecastKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast from redis: %w", err)
	}

	var forecast models.Forecast
	if err := json.Unmarshal([]byte(val), &forecast); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast: %w", err)
	}
	return &forecast, nil
}

func (r *RedisStateRepository) SetForecast(ctx context.Context, forecast *models.Forecast, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast: %w", err)
	}
	if err := r.client.Set(ctx, forecastKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set forecast in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) GetLogo(ctx context.Context) (*models.Asset, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, logoKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get logo from redis: %w", err)
	}

	var asset models.Asset
	if err := json.Unmarshal([]byte(val), &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal logo: %w", err)
	}
	return &asset, nil
}

func (r *RedisStateRepository) SetLogo(ctx context.Context, asset *models.Asset) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal logo: %w", err)
	}
	// The logo has no TTL: it lives until replaced.
	if err := r.client.Set(ctx, logoKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set logo in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if _, err := r.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"tennisclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	t.Run("ForecastRoundTrip", func(t *testing.T) {
		got, err := repo.GetForecast(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)

		forecast := &models.Forecast{
			FetchedAt: time.Now(),
			Days:      []models.ForecastDay{{Data: "2025-06-09", WeatherCode: 0}},
		}
		require.NoError(t, repo.SetForecast(ctx, forecast, time.Hour))

		got, err = repo.GetForecast(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Days, 1)
	})

	t.Run("ForecastTTL", func(t *testing.T) {
		forecast := &models.Forecast{FetchedAt: time.Now()}
		require.NoError(t, repo.SetForecast(ctx, forecast, -time.Second))

		got, err := repo.GetForecast(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("LogoRoundTrip", func(t *testing.T) {
		asset := &models.Asset{ContentType: "image/svg+xml", Data: []byte("<svg/>")}
		require.NoError(t, repo.SetLogo(ctx, asset))

		got, err := repo.GetLogo(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "image/svg+xml", got.ContentType)
	})

	t.Run("PingAndClose", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
		assert.NoError(t, repo.Close())
	})
}

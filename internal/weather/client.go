package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tennisclub/internal/config"
	"tennisclub/internal/models"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client fetches daily forecasts from the Open-Meteo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.WeatherConfig
}

func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
	}
}

// openMeteoResponse mirrors the subset of the API payload we read.
type openMeteoResponse struct {
	Daily struct {
		Time                     []string  `json:"time"`
		WeatherCode              []int     `json:"weather_code"`
		Temperature2mMax         []float64 `json:"temperature_2m_max"`
		Temperature2mMin         []float64 `json:"temperature_2m_min"`
		PrecipitationProbability []int     `json:"precipitation_probability_max"`
		WindSpeed10mMax          []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

func (c *Client) FetchForecast(ctx context.Context) (*models.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", c.cfg.Latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", c.cfg.Longitude))
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max")
	params.Set("timezone", "Europe/Rome")
	params.Set("forecast_days", fmt.Sprintf("%d", c.cfg.ForecastDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	forecast := &models.Forecast{
		Latitude:  c.cfg.Latitude,
		Longitude: c.cfg.Longitude,
		FetchedAt: time.Now(),
	}
	for i, day := range payload.Daily.Time {
		fd := models.ForecastDay{Data: day}
		if i < len(payload.Daily.WeatherCode) {
			fd.WeatherCode = payload.Daily.WeatherCode[i]
			fd.Descrizione = models.WeatherDescription(fd.WeatherCode)
		}
		if i < len(payload.Daily.Temperature2mMax) {
			fd.TempMax = payload.Daily.Temperature2mMax[i]
		}
		if i < len(payload.Daily.Temperature2mMin) {
			fd.TempMin = payload.Daily.Temperature2mMin[i]
		}
		if i < len(payload.Daily.PrecipitationProbability) {
			fd.PrecipitProb = payload.Daily.PrecipitationProbability[i]
		}
		if i < len(payload.Daily.WindSpeed10mMax) {
			fd.VentoMax = payload.Daily.WindSpeed10mMax[i]
		}
		forecast.Days = append(forecast.Days, fd)
	}
	return forecast, nil
}

// Package weather implements the WeatherProvider against an external
// observation API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plowline/config"
	"plowline/internal/domain/entity"
	"plowline/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultWeatherTimeout = 5 * time.Second

// httpProvider fetches current conditions over HTTP. Callers treat any error
// as "no observation" and fall back to clear-weather pricing; this client
// never invents data.
type httpProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Params holds dependencies for the weather provider, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
}

// New creates the WeatherProvider client from configuration.
func New(params Params) (service.WeatherProvider, error) {
	cfg := params.Config.Weather
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New("weather provider base URL must be configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWeatherTimeout
	}

	return &httpProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type observationResponse struct {
	TemperatureF float64 `json:"temperature_f"`
	Type         string  `json:"precipitation_type"`
	Intensity    string  `json:"precipitation_intensity"`
}

// Observe returns the current conditions at the given coordinates.
func (p *httpProvider) Observe(ctx context.Context, latitude, longitude float64) (*entity.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/v1/current?lat=%f&lon=%f", p.baseURL, latitude, longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "weather request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var observation observationResponse
	if err := json.NewDecoder(resp.Body).Decode(&observation); err != nil {
		return nil, errors.Wrap(err, "failed to decode weather observation")
	}

	return &entity.WeatherSnapshot{
		TemperatureF: observation.TemperatureF,
		Type:         entity.PrecipitationType(observation.Type),
		Intensity:    entity.PrecipitationIntensity(observation.Intensity),
		CapturedAt:   time.Now().UTC(),
	}, nil
}

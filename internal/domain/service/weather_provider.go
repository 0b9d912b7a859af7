package service

import (
	"context"

	"plowline/internal/domain/entity"
)

// WeatherProvider supplies the weather observation for a service location.
// Submit calls it exactly once per submission; the returned snapshot is
// frozen into the request so price and charge derive from the same inputs.
type WeatherProvider interface {
	// Observe returns the current conditions at the given coordinates.
	Observe(ctx context.Context, latitude, longitude float64) (*entity.WeatherSnapshot, error)
}

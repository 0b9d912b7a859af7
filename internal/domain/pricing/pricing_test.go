package pricing

import (
	"testing"

	"plowline/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func snapshot(tempF float64, precipType entity.PrecipitationType, intensity entity.PrecipitationIntensity) entity.WeatherSnapshot {
	return entity.WeatherSnapshot{
		TemperatureF: tempF,
		Type:         precipType,
		Intensity:    intensity,
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name    string
		weather entity.WeatherSnapshot
		size    entity.JobSize
		want    float64
	}{
		{
			name:    "heavy snow at freezing, medium job",
			weather: snapshot(32, entity.PrecipitationSnow, entity.IntensityHeavy),
			size:    entity.JobSizeMedium,
			want:    27.00, // 15 × 1.5 × 1.2
		},
		{
			name:    "heavy snow above freezing carries no weather multiplier",
			weather: snapshot(40, entity.PrecipitationSnow, entity.IntensityHeavy),
			size:    entity.JobSizeMedium,
			want:    18.00, // 15 × 1.0 × 1.2
		},
		{
			name:    "moderate snow below freezing",
			weather: snapshot(20, entity.PrecipitationSnow, entity.IntensityModerate),
			size:    entity.JobSizeSmall,
			want:    19.50, // 15 × 1.3
		},
		{
			name:    "light snow is neutral even below freezing",
			weather: snapshot(10, entity.PrecipitationSnow, entity.IntensityLight),
			size:    entity.JobSizeLarge,
			want:    22.50, // 15 × 1.0 × 1.5
		},
		{
			name:    "rain never multiplies",
			weather: snapshot(30, entity.PrecipitationRain, entity.IntensityHeavy),
			size:    entity.JobSizeXLarge,
			want:    30.00, // 15 × 1.0 × 2.0
		},
		{
			name:    "unrecognized intensity is neutral",
			weather: snapshot(25, entity.PrecipitationSnow, entity.PrecipitationIntensity("blizzard")),
			size:    entity.JobSizeMedium,
			want:    18.00,
		},
		{
			name:    "unrecognized job size is neutral",
			weather: snapshot(32, entity.PrecipitationSnow, entity.IntensityHeavy),
			size:    entity.JobSize("gigantic"),
			want:    22.50, // 15 × 1.5 × 1.0
		},
		{
			name:    "clear weather small job is the base price",
			weather: snapshot(50, entity.PrecipitationNone, ""),
			size:    entity.JobSizeSmall,
			want:    15.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Price(tt.weather, tt.size), 1e-9)
		})
	}
}

func TestPriceCents(t *testing.T) {
	weather := snapshot(32, entity.PrecipitationSnow, entity.IntensityHeavy)

	assert.Equal(t, int64(2700), PriceCents(weather, entity.JobSizeMedium))
	assert.Equal(t, int64(1500), PriceCents(snapshot(40, entity.PrecipitationNone, ""), entity.JobSizeSmall))
}

func TestPriceIsDeterministic(t *testing.T) {
	weather := snapshot(28, entity.PrecipitationSnow, entity.IntensityModerate)

	first := Price(weather, entity.JobSizeXLarge)
	for range 100 {
		assert.InDelta(t, first, Price(weather, entity.JobSizeXLarge), 0)
	}
}

// Package pricing implements the deterministic price computation for a single
// service item. It is a pure function of the weather snapshot and the job
// size: no I/O, no mutable state, so the same inputs always quote the same
// price at display time and at charge time.
package pricing

import (
	"math"

	"plowline/internal/domain/entity"
)

// BasePrice is the fixed starting price for any single service item, in dollars.
const BasePrice = 15.0

// FreezingPointF is the temperature at or below which snowfall affects price.
const FreezingPointF = 32.0

// Price computes the quoted price in dollars for one service item.
// The weather multiplier applies only when snow is falling at or below
// freezing; any unrecognized intensity or job size is neutral (1.0) rather
// than an error, so a stale client can never make pricing fail.
func Price(weather entity.WeatherSnapshot, size entity.JobSize) float64 {
	return BasePrice * weatherMultiplier(weather) * sizeMultiplier(size)
}

// PriceCents computes the quoted price in integer cents, rounding once at the
// currency boundary.
func PriceCents(weather entity.WeatherSnapshot, size entity.JobSize) int64 {
	return int64(math.Round(Price(weather, size) * 100))
}

func weatherMultiplier(weather entity.WeatherSnapshot) float64 {
	if weather.Type != entity.PrecipitationSnow || weather.TemperatureF > FreezingPointF {
		return 1.0
	}

	switch weather.Intensity {
	case entity.IntensityModerate:
		return 1.3
	case entity.IntensityHeavy:
		return 1.5
	default:
		return 1.0
	}
}

func sizeMultiplier(size entity.JobSize) float64 {
	switch size {
	case entity.JobSizeSmall:
		return 1.0
	case entity.JobSizeMedium:
		return 1.2
	case entity.JobSizeLarge:
		return 1.5
	case entity.JobSizeXLarge:
		return 2.0
	default:
		return 1.0
	}
}

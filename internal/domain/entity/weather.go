// Package entity contains the core business objects of the project.
package entity

import "time"

// PrecipitationType classifies what is currently falling from the sky.
type PrecipitationType string

const (
	PrecipitationNone PrecipitationType = "none"
	PrecipitationRain PrecipitationType = "rain"
	PrecipitationSnow PrecipitationType = "snow"
)

// PrecipitationIntensity classifies how hard it is falling. Unrecognized
// values price with a neutral multiplier.
type PrecipitationIntensity string

const (
	IntensityLight    PrecipitationIntensity = "light"
	IntensityModerate PrecipitationIntensity = "moderate"
	IntensityHeavy    PrecipitationIntensity = "heavy"
)

// WeatherSnapshot is the weather observation captured once at submission
// time. Every price on the request is derived from this one snapshot so the
// charged price can never drift from the conditions it was quoted under.
type WeatherSnapshot struct {
	TemperatureF float64                `json:"temperature_f"`
	Type         PrecipitationType      `json:"type"`
	Intensity    PrecipitationIntensity `json:"intensity"`
	CapturedAt   time.Time              `json:"captured_at"`
}

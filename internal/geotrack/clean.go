package geotrack

import (
	"math"

	"backend-trackaudit/internal/shared/geo"
	"backend-trackaudit/internal/validator"
)

type Config struct {
	MaxJumpKm     float64 `json:"max_jump_km"`
	BeamwidthDeg  float64 `json:"beamwidth_deg"`
	EarthRadiusKm float64 `json:"earth_radius_km"`
}

func DefaultConfig() Config {
	return Config{
		MaxJumpKm:     7.19,
		BeamwidthDeg:  40,
		EarthRadiusKm: geo.EarthRadiusKm,
	}
}

// Position is a cleaned sample in map order (lat first) with the ground
// footprint of the receiver beam at that altitude.
type Position struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	AltitudeM   float64 `json:"altitude_m"`
	CoverageKm2 float64 `json:"coverage_km2"`
	SourceIndex int     `json:"source_index"`
}

type Track struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Positions   []Position `json:"positions"`
	Dropped     int        `json:"dropped"`
}

// Clean drops samples at lon=0, lat=0 and samples that jump more than
// MaxJumpKm away from the last kept sample.
func Clean(points []validator.TrackPoint, cfg Config) ([]Position, int) {
	def := DefaultConfig()
	if cfg.MaxJumpKm <= 0 {
		cfg.MaxJumpKm = def.MaxJumpKm
	}
	if cfg.EarthRadiusKm <= 0 {
		cfg.EarthRadiusKm = def.EarthRadiusKm
	}

	out := make([]Position, 0, len(points))
	var last *validator.TrackPoint
	for i := range points {
		p := points[i]
		if p.Longitude == 0 && p.Latitude == 0 {
			continue
		}
		if last != nil && geo.HaversineRadiusKm(last.Latitude, last.Longitude, p.Latitude, p.Longitude, cfg.EarthRadiusKm) > cfg.MaxJumpKm {
			continue
		}
		last = &points[i]
		out = append(out, Position{
			Lat:         p.Latitude,
			Lng:         p.Longitude,
			AltitudeM:   p.Altitude,
			CoverageKm2: CoverageKm2(p.Altitude, cfg.BeamwidthDeg),
			SourceIndex: i,
		})
	}
	return out, len(points) - len(out)
}

// CoverageKm2 is the area of the circle a cone of the given beamwidth
// projects onto the ground from altitudeM metres up.
func CoverageKm2(altitudeM, beamwidthDeg float64) float64 {
	if altitudeM <= 0 || beamwidthDeg <= 0 {
		return 0
	}
	altKm := altitudeM / 1000
	radius := altKm * math.Tan(beamwidthDeg*math.Pi/180/2)
	return math.Pi * radius * radius
}

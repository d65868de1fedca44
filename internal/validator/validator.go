package validator

import (
	"backend-trackaudit/internal/shared/geo"
)

type Thresholds struct {
	AngleDeg      float64 `json:"angle_deg"`
	TimeGapSec    float64 `json:"time_gap_sec"`
	EarthRadiusKm float64 `json:"earth_radius_km"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		AngleDeg:      30.0,
		TimeGapSec:    2.0,
		EarthRadiusKm: geo.EarthRadiusKm,
	}
}

// Validator runs the timestamp and track checks for one record at a time.
// It holds no per-record state and is safe to share.
type Validator struct {
	th Thresholds
}

func New(th Thresholds) Validator {
	def := DefaultThresholds()
	if th.AngleDeg <= 0 {
		th.AngleDeg = def.AngleDeg
	}
	if th.TimeGapSec <= 0 {
		th.TimeGapSec = def.TimeGapSec
	}
	if th.EarthRadiusKm <= 0 {
		th.EarthRadiusKm = def.EarthRadiusKm
	}
	return Validator{th: th}
}

func (v Validator) Thresholds() Thresholds {
	return v.th
}

// CheckTimestamps walks consecutive capture pairs. The first out-of-order
// pair sets HasTimeError; any other pair whose delta exceeds the gap
// threshold sets HasTimeGapError. A pair that raised the order flag is not
// gap-checked.
func (v Validator) CheckTimestamps(events []CaptureEvent) TimeFlags {
	var flags TimeFlags
	for i := 1; i < len(events); i++ {
		prev, curr := events[i-1].Timestamp, events[i].Timestamp
		if curr.Before(prev) && !flags.HasTimeError {
			flags.HasTimeError = true
			continue
		}
		if curr.Sub(prev).Seconds() > v.th.TimeGapSec && !flags.HasTimeGapError {
			flags.HasTimeGapError = true
		}
	}
	return flags
}

// CheckGeometry walks consecutive point triples. The first middle point at
// the origin sets HasZeroPointError and skips the angle test for that triple.
// A turn sharper than the angle threshold (measured as the angle between
// successive displacement vectors) sets HasAngleError. Triples with a
// zero-length displacement have no defined angle; they are counted in
// DegenerateTurns and never flagged.
func (v Validator) CheckGeometry(points []TrackPoint) GeometryFlags {
	var flags GeometryFlags
	for i := 0; i+2 < len(points); i++ {
		a, b, c := vec(points[i]), vec(points[i+1]), vec(points[i+2])

		if b.IsZero() && !flags.HasZeroPointError {
			flags.HasZeroPointError = true
			continue
		}

		angle, ok := geo.AngleBetweenDeg(geo.Sub(b, a), geo.Sub(c, b))
		if !ok {
			flags.DegenerateTurns++
			continue
		}
		if angle < v.th.AngleDeg && !flags.HasAngleError {
			flags.HasAngleError = true
		}
	}
	return flags
}

// Distances computes haversine segment lengths over lon/lat. The inlier
// list keeps segments within one average of the average.
func (v Validator) Distances(points []TrackPoint) (DistanceStats, error) {
	if len(points) < 2 {
		return DistanceStats{}, &DegenerateInputError{Check: "distance", Have: len(points), Need: 2}
	}

	stats := DistanceStats{SegmentsKm: make([]float64, 0, len(points)-1)}
	for i := 0; i+1 < len(points); i++ {
		p, q := points[i], points[i+1]
		d := geo.HaversineRadiusKm(p.Latitude, p.Longitude, q.Latitude, q.Longitude, v.th.EarthRadiusKm)
		stats.SegmentsKm = append(stats.SegmentsKm, d)
		stats.TotalKm += d
	}
	stats.AverageKm = stats.TotalKm / float64(len(stats.SegmentsKm))

	stats.InliersKm = make([]float64, 0, len(stats.SegmentsKm))
	for _, d := range stats.SegmentsKm {
		if abs(d-stats.AverageKm) <= stats.AverageKm {
			stats.InliersKm = append(stats.InliersKm, d)
		} else {
			stats.Outliers++
		}
	}
	return stats, nil
}

// Validate runs every check on rec. A track with fewer than two points
// fails with a DegenerateInputError and yields no flags.
func (v Validator) Validate(rec Record) (Result, error) {
	dist, err := v.Distances(rec.Track)
	if err != nil {
		return Result{}, err
	}
	tf := v.CheckTimestamps(rec.Captures)
	gf := v.CheckGeometry(rec.Track)

	return Result{
		HasTimeError:      tf.HasTimeError,
		HasTimeGapError:   tf.HasTimeGapError,
		HasAngleError:     gf.HasAngleError,
		HasZeroPointError: gf.HasZeroPointError,
		AverageDistanceKm: dist.AverageKm,
		TotalDistanceKm:   dist.TotalKm,
		Outliers:          dist.Outliers,
		DegenerateTurns:   gf.DegenerateTurns,
	}, nil
}

func vec(p TrackPoint) geo.Vec3 {
	return geo.Vec3{p.Longitude, p.Latitude, p.Altitude}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

package validator

import "time"

type CaptureEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// TrackPoint is one geotrack sample. Altitude is carried along but only the
// turn-angle check looks at it.
type TrackPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Altitude  float64 `json:"altitude"`
}

// Record is everything the validator needs from one metadata document.
type Record struct {
	Name     string         `json:"name"`
	Captures []CaptureEvent `json:"captures"`
	Track    []TrackPoint   `json:"track"`
}

type TimeFlags struct {
	HasTimeError    bool `json:"has_time_error"`
	HasTimeGapError bool `json:"has_time_gap_error"`
}

type GeometryFlags struct {
	HasAngleError     bool `json:"has_angle_error"`
	HasZeroPointError bool `json:"has_zero_point_error"`
	DegenerateTurns   int  `json:"degenerate_turns"`
}

type DistanceStats struct {
	AverageKm  float64   `json:"average_km"`
	TotalKm    float64   `json:"total_km"`
	SegmentsKm []float64 `json:"segments_km"`
	InliersKm  []float64 `json:"inliers_km"`
	Outliers   int       `json:"outliers"`
}

type Result struct {
	HasTimeError      bool    `json:"has_time_error"`
	HasTimeGapError   bool    `json:"has_time_gap_error"`
	HasAngleError     bool    `json:"has_angle_error"`
	HasZeroPointError bool    `json:"has_zero_point_error"`
	AverageDistanceKm float64 `json:"average_distance_km"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	Outliers          int     `json:"outliers"`
	DegenerateTurns   int     `json:"degenerate_turns"`
}

func (r Result) HasErrors() bool {
	return r.HasTimeError || r.HasTimeGapError || r.HasAngleError || r.HasZeroPointError
}

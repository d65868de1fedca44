package validator

import (
	"errors"
	"math"
	"testing"
	"time"
)

func captures(offsets ...float64) []CaptureEvent {
	base := time.Date(2023, 4, 11, 2, 20, 0, 0, time.UTC)
	events := make([]CaptureEvent, 0, len(offsets))
	for _, o := range offsets {
		events = append(events, CaptureEvent{Timestamp: base.Add(time.Duration(o * float64(time.Second)))})
	}
	return events
}

func points(coords ...[3]float64) []TrackPoint {
	out := make([]TrackPoint, 0, len(coords))
	for _, c := range coords {
		out = append(out, TrackPoint{Longitude: c[0], Latitude: c[1], Altitude: c[2]})
	}
	return out
}

func TestCheckTimestampsOrdered(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckTimestamps(captures(0, 1, 2, 3.5, 5.5))
	if flags.HasTimeError || flags.HasTimeGapError {
		t.Fatalf("expected no flags, got %+v", flags)
	}
}

func TestCheckTimestampsShortSequences(t *testing.T) {
	v := New(DefaultThresholds())
	if flags := v.CheckTimestamps(nil); flags != (TimeFlags{}) {
		t.Fatalf("expected no flags for empty input")
	}
	if flags := v.CheckTimestamps(captures(10)); flags != (TimeFlags{}) {
		t.Fatalf("expected no flags for single capture")
	}
}

func TestCheckTimestampsOutOfOrderSticky(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckTimestamps(captures(0, 1, 0.5, 0.2, 0.1))
	if !flags.HasTimeError {
		t.Fatalf("expected time error")
	}
	if flags.HasTimeGapError {
		t.Fatalf("unexpected gap error")
	}

	var c Counters
	c.Add(Result{HasTimeError: flags.HasTimeError})
	if c.TimeErrors != 1 {
		t.Fatalf("expected one record counted, got %d", c.TimeErrors)
	}
}

func TestCheckTimestampsGap(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckTimestamps(captures(0, 1, 3.5))
	if !flags.HasTimeGapError || flags.HasTimeError {
		t.Fatalf("expected only gap error, got %+v", flags)
	}

	// exactly at the threshold is not a gap
	flags = v.CheckTimestamps(captures(0, 2, 4))
	if flags.HasTimeGapError {
		t.Fatalf("gap equal to threshold should pass")
	}
}

func TestCheckTimestampsCustomThreshold(t *testing.T) {
	v := New(Thresholds{TimeGapSec: 10})
	if v.CheckTimestamps(captures(0, 5, 14)).HasTimeGapError {
		t.Fatalf("expected no gap error with 10s threshold")
	}
	if !v.CheckTimestamps(captures(0, 11)).HasTimeGapError {
		t.Fatalf("expected gap error past 10s")
	}
}

func TestCheckTimestampsOrderAndGap(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckTimestamps(captures(5, 0, 10))
	if !flags.HasTimeError || !flags.HasTimeGapError {
		t.Fatalf("expected both flags, got %+v", flags)
	}
}

func TestCheckGeometryCollinear(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckGeometry(points([3]float64{0, 0, 0}, [3]float64{1, 1, 0}, [3]float64{2, 2, 0}))
	if !flags.HasAngleError {
		t.Fatalf("expected angle error for collinear points")
	}
	if flags.HasZeroPointError {
		t.Fatalf("unexpected zero point error")
	}
}

func TestCheckGeometryRightAngle(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckGeometry(points([3]float64{0, 0, 0}, [3]float64{1, 0, 0}, [3]float64{1, 1, 0}))
	if flags.HasAngleError {
		t.Fatalf("expected no angle error for 90 degree turn")
	}
}

func TestCheckGeometryZeroPointPrecedence(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckGeometry(points([3]float64{-1, -1, 0}, [3]float64{0, 0, 0}, [3]float64{1, 1, 0}))
	if !flags.HasZeroPointError {
		t.Fatalf("expected zero point error")
	}
	if flags.HasAngleError {
		t.Fatalf("zero point check should take precedence over angle check")
	}
}

func TestCheckGeometryTooShort(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckGeometry(points([3]float64{0, 0, 0}, [3]float64{0, 0, 0}))
	if flags != (GeometryFlags{}) {
		t.Fatalf("expected no geometry checks below three points, got %+v", flags)
	}
}

func TestCheckGeometryDegenerateTurn(t *testing.T) {
	v := New(DefaultThresholds())
	flags := v.CheckGeometry(points([3]float64{1, 0, 0}, [3]float64{1, 0, 0}, [3]float64{1, 1, 0}))
	if flags.HasAngleError {
		t.Fatalf("repeated point should not raise an angle error")
	}
	if flags.DegenerateTurns != 1 {
		t.Fatalf("expected one degenerate turn, got %d", flags.DegenerateTurns)
	}
}

func TestDistancesOneDegree(t *testing.T) {
	v := New(DefaultThresholds())
	stats, err := v.Distances(points([3]float64{0, 0, 0}, [3]float64{0, 1, 0}))
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	if math.Abs(stats.AverageKm-111.19) > 0.5 {
		t.Fatalf("unexpected distance: %v", stats.AverageKm)
	}
}

func TestDistancesUniformSpacing(t *testing.T) {
	v := New(DefaultThresholds())
	stats, err := v.Distances(points(
		[3]float64{10, 0, 100},
		[3]float64{10.5, 0, 200},
		[3]float64{11, 0, 300},
		[3]float64{11.5, 0, 400},
	))
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	if math.Abs(stats.AverageKm-stats.SegmentsKm[0]) > 1e-9 {
		t.Fatalf("average %v differs from spacing %v", stats.AverageKm, stats.SegmentsKm[0])
	}
	if stats.Outliers != 0 || len(stats.InliersKm) != 3 {
		t.Fatalf("expected all segments to be inliers")
	}
}

func TestDistancesOutlier(t *testing.T) {
	v := New(DefaultThresholds())
	stats, err := v.Distances(points(
		[3]float64{0, 0, 0},
		[3]float64{0, 0.01, 0},
		[3]float64{0, 0.02, 0},
		[3]float64{0, 0.03, 0},
		[3]float64{0, 1, 0},
	))
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	if stats.Outliers != 1 || len(stats.InliersKm) != 3 {
		t.Fatalf("expected one outlier, got %+v", stats)
	}
}

func TestDistancesDegenerate(t *testing.T) {
	v := New(DefaultThresholds())
	_, err := v.Distances(points([3]float64{1, 1, 1}))
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("expected degenerate input error, got %v", err)
	}
	if !errors.Is(err, ErrDegenerate) || de.Have != 1 || de.Need != 2 {
		t.Fatalf("unexpected error detail: %+v", de)
	}
}

func TestValidate(t *testing.T) {
	v := New(DefaultThresholds())
	res, err := v.Validate(Record{
		Name:     "a.sigmf-meta",
		Captures: captures(0, 1, 0.5),
		Track:    points([3]float64{0, 0, 0}, [3]float64{1, 1, 0}, [3]float64{2, 2, 0}),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.HasTimeError || !res.HasAngleError || res.HasZeroPointError || res.HasTimeGapError {
		t.Fatalf("unexpected flags: %+v", res)
	}
	if !res.HasErrors() || res.AverageDistanceKm <= 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := v.Validate(Record{Captures: captures(0, 1)}); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected degenerate error for empty track, got %v", err)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	th := New(Thresholds{}).Thresholds()
	if th != DefaultThresholds() {
		t.Fatalf("expected defaults, got %+v", th)
	}
	th = New(Thresholds{AngleDeg: 45}).Thresholds()
	if th.AngleDeg != 45 || th.TimeGapSec != 2 {
		t.Fatalf("unexpected thresholds: %+v", th)
	}
}

package audit

import (
	"time"

	"backend-trackaudit/internal/validator"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Reports go out on the stream and as JSONL once per record, so they are
// encoded with easyjson writers instead of reflection.

func (r RecordReport) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"run_id":`)
	w.String(r.RunID)
	w.RawString(`,"object":`)
	w.String(r.Object)
	if r.Result != nil {
		w.RawString(`,"result":`)
		writeResult(w, *r.Result)
	}
	if r.Kind != "" {
		w.RawString(`,"kind":`)
		w.String(r.Kind)
	}
	if r.Error != "" {
		w.RawString(`,"error":`)
		w.String(r.Error)
	}
	w.RawByte('}')
}

func (r RecordReport) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(r)
}

func (t Totals) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	writeTotalsFields(w, t)
	w.RawByte('}')
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(t)
}

func (s Summary) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	writeTotalsFields(w, s.Totals)
	w.RawString(`,"records":[`)
	for i, r := range s.Records {
		if i > 0 {
			w.RawByte(',')
		}
		r.MarshalEasyJSON(w)
	}
	w.RawString(`]}`)
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(s)
}

func writeTotalsFields(w *jwriter.Writer, t Totals) {
	w.RawString(`"run_id":`)
	w.String(t.RunID)
	w.RawString(`,"started_at":`)
	w.String(t.StartedAt.UTC().Format(time.RFC3339Nano))
	w.RawString(`,"finished_at":`)
	w.String(t.FinishedAt.UTC().Format(time.RFC3339Nano))

	w.RawString(`,"thresholds":{"angle_deg":`)
	w.Float64(t.Thresholds.AngleDeg)
	w.RawString(`,"time_gap_sec":`)
	w.Float64(t.Thresholds.TimeGapSec)
	w.RawString(`,"earth_radius_km":`)
	w.Float64(t.Thresholds.EarthRadiusKm)
	w.RawByte('}')

	c := t.Counters
	w.RawString(`,"counters":{"records":`)
	w.Int(c.Records)
	w.RawString(`,"failed":`)
	w.Int(c.Failed)
	w.RawString(`,"time_errors":`)
	w.Int(c.TimeErrors)
	w.RawString(`,"time_gap_errors":`)
	w.Int(c.TimeGapErrors)
	w.RawString(`,"angle_errors":`)
	w.Int(c.AngleErrors)
	w.RawString(`,"zero_point_errors":`)
	w.Int(c.ZeroPointErrors)
	w.RawByte('}')

	w.RawString(`,"skipped":`)
	w.Int(t.Skipped)
	w.RawString(`,"last_average_distance_km":`)
	w.Float64(t.LastAverageDistanceKm)
}

func writeResult(w *jwriter.Writer, r validator.Result) {
	w.RawString(`{"has_time_error":`)
	w.Bool(r.HasTimeError)
	w.RawString(`,"has_time_gap_error":`)
	w.Bool(r.HasTimeGapError)
	w.RawString(`,"has_angle_error":`)
	w.Bool(r.HasAngleError)
	w.RawString(`,"has_zero_point_error":`)
	w.Bool(r.HasZeroPointError)
	w.RawString(`,"average_distance_km":`)
	w.Float64(r.AverageDistanceKm)
	w.RawString(`,"total_distance_km":`)
	w.Float64(r.TotalDistanceKm)
	w.RawString(`,"outliers":`)
	w.Int(r.Outliers)
	w.RawString(`,"degenerate_turns":`)
	w.Int(r.DegenerateTurns)
	w.RawByte('}')
}

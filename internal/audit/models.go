package audit

import (
	"time"

	"backend-trackaudit/internal/validator"
)

// RecordReport is the outcome for one metadata object. Result is nil when
// the record could not be validated; Kind and Error then say why.
type RecordReport struct {
	RunID  string            `json:"run_id"`
	Object string            `json:"object"`
	Result *validator.Result `json:"result,omitempty"`
	Kind   string            `json:"kind,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (r RecordReport) Failed() bool {
	return r.Result == nil
}

type Totals struct {
	RunID                 string               `json:"run_id"`
	StartedAt             time.Time            `json:"started_at"`
	FinishedAt            time.Time            `json:"finished_at"`
	Thresholds            validator.Thresholds `json:"thresholds"`
	Counters              validator.Counters   `json:"counters"`
	Skipped               int                  `json:"skipped"`
	LastAverageDistanceKm float64              `json:"last_average_distance_km"`
}

type Summary struct {
	Totals
	Records []RecordReport `json:"records"`
}

// Failures lists the records excluded from the counters.
func (s Summary) Failures() []RecordReport {
	var out []RecordReport
	for _, r := range s.Records {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Options narrows a run to records whose captures overlap [From, To].
// Zero bounds are open.
type Options struct {
	RunID string    `json:"run_id"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

func (o Options) windowed() bool {
	return !o.From.IsZero() || !o.To.IsZero()
}

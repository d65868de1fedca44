package validator

// Counters folds per-record results into run totals. Each field counts
// records, not occurrences.
type Counters struct {
	Records         int `json:"records"`
	Failed          int `json:"failed"`
	TimeErrors      int `json:"time_errors"`
	TimeGapErrors   int `json:"time_gap_errors"`
	AngleErrors     int `json:"angle_errors"`
	ZeroPointErrors int `json:"zero_point_errors"`
}

func (c *Counters) Add(r Result) {
	c.Records++
	if r.HasTimeError {
		c.TimeErrors++
	}
	if r.HasTimeGapError {
		c.TimeGapErrors++
	}
	if r.HasAngleError {
		c.AngleErrors++
	}
	if r.HasZeroPointError {
		c.ZeroPointErrors++
	}
}

// Fail records a record that could not be validated. It does not touch the
// error counters.
func (c *Counters) Fail() {
	c.Failed++
}

func (c *Counters) Merge(o Counters) {
	c.Records += o.Records
	c.Failed += o.Failed
	c.TimeErrors += o.TimeErrors
	c.TimeGapErrors += o.TimeGapErrors
	c.AngleErrors += o.AngleErrors
	c.ZeroPointErrors += o.ZeroPointErrors
}

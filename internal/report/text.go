package report

import (
	"bufio"
	"fmt"
	"io"

	"backend-trackaudit/internal/audit"
)

func WriteText(w io.Writer, s audit.Summary) error {
	bw := bufio.NewWriter(w)

	for _, f := range s.Failures() {
		fmt.Fprintf(bw, "record %s: %s\n", f.Object, f.Error)
	}

	c := s.Counters
	fmt.Fprintf(bw, "Number of files with time errors: %d\n", c.TimeErrors)
	fmt.Fprintf(bw, "Number of files with angle errors: %d\n", c.AngleErrors)
	fmt.Fprintf(bw, "Number of files with zero point errors: %d\n", c.ZeroPointErrors)
	fmt.Fprintf(bw, "Number of files with time gap errors: %d\n", c.TimeGapErrors)
	fmt.Fprintf(bw, "Average distance: %g\n", s.LastAverageDistanceKm)
	fmt.Fprintf(bw, "Files audited: %d, failed: %d", c.Records, c.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(bw, ", outside window: %d", s.Skipped)
	}
	fmt.Fprintln(bw)

	return bw.Flush()
}

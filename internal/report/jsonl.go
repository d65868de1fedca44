package report

import (
	"bufio"
	"io"

	"backend-trackaudit/internal/audit"

	"github.com/mailru/easyjson"
)

// WriteJSONL emits one line per record followed by one totals line.
func WriteJSONL(w io.Writer, s audit.Summary) error {
	bw := bufio.NewWriter(w)
	for _, r := range s.Records {
		if _, err := easyjson.MarshalToWriter(r, bw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if _, err := easyjson.MarshalToWriter(s.Totals, bw); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

// Package report renders an audit summary for people (text) or for other
// tools (jsonl).
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"backend-trackaudit/internal/audit"
)

type WriteFunc func(w io.Writer, s audit.Summary) error

var writers = map[string]WriteFunc{
	"text":  WriteText,
	"jsonl": WriteJSONL,
}

// Register adds or replaces a format.
func Register(format string, fn WriteFunc) { writers[format] = fn }

func Formats() []string {
	out := make([]string, 0, len(writers))
	for f := range writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func Write(format string, w io.Writer, s audit.Summary) error {
	fn, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (have %v)", format, Formats())
	}
	return fn(w, s)
}

// IsBrokenPipe reports whether the reader went away early, e.g. `| head`.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

package sink

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/daehyun-ko/feedsweep/internal/filter"
)

// color ANSI escape codes.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// TerminalSink writes decision records to a terminal with optional ANSI
// color: removals red, kept entries green.
type TerminalSink struct {
	w     io.Writer
	color bool
}

// NewTerminalSink creates a sink that writes to the given writer.
func NewTerminalSink(w io.Writer, color bool) *TerminalSink {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalSink{w: w, color: color}
}

// Write outputs a formatted decision record.
func (s *TerminalSink) Write(r filter.Record) error {
	ts := r.Time.Format(time.RFC3339)
	verdict := r.Decision.Verdict.String()

	if !s.color {
		if r.Decision.Reason != "" {
			_, err := fmt.Fprintf(s.w, "[%s][%s][%s]: %s\n", ts, verdict, r.Decision.Reason, r.Entry.Text())
			return err
		}
		_, err := fmt.Fprintf(s.w, "[%s][%s]: %s\n", ts, verdict, r.Entry.Text())
		return err
	}

	verdictColor := colorGreen
	if r.Decision.Verdict == filter.Remove {
		verdictColor = colorBold + colorRed
	}
	if r.Decision.Reason != "" {
		_, err := fmt.Fprintf(s.w, "%s[%s]%s%s[%s]%s[%s]: %s\n",
			colorGray, ts, colorReset,
			verdictColor, verdict, colorReset,
			r.Decision.Reason,
			r.Entry.Text(),
		)
		return err
	}
	_, err := fmt.Fprintf(s.w, "%s[%s]%s%s[%s]%s: %s\n",
		colorGray, ts, colorReset,
		verdictColor, verdict, colorReset,
		r.Entry.Text(),
	)
	return err
}

// Flush is a no-op for terminal output.
func (s *TerminalSink) Flush() error { return nil }

// Close is a no-op for terminal output.
func (s *TerminalSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *TerminalSink) Name() string { return "terminal" }

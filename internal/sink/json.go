package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daehyun-ko/feedsweep/internal/filter"
)

// jsonRecord is the serialization format for JSON Lines output.
type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Verdict   string `json:"verdict"`
	Reason    string `json:"reason,omitempty"`
	Text      string `json:"text"`
	Comments  int    `json:"comments"`
	Likes     int    `json:"likes"`
	Image     bool   `json:"image,omitempty"`
	Video     bool   `json:"video,omitempty"`
}

// JSONSink writes decision records as JSON Lines (one object per line).
type JSONSink struct {
	w   io.Writer
	enc *json.Encoder
}

// NewJSONSink creates a JSON Lines sink writing to the given writer.
func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	return &JSONSink{
		w:   w,
		enc: json.NewEncoder(w),
	}
}

// Write serializes a decision record as a single JSON line.
func (s *JSONSink) Write(r filter.Record) error {
	jr := jsonRecord{
		Timestamp: r.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		Verdict:   r.Decision.Verdict.String(),
		Reason:    r.Decision.Reason,
		Text:      r.Entry.Text(),
		Comments:  r.Entry.CommentCount(),
		Likes:     r.Entry.LikeCount(),
		Image:     r.Entry.HasImage(),
		Video:     r.Entry.HasVideo(),
	}
	return s.enc.Encode(jr)
}

// Flush is a no-op for JSON sink.
func (s *JSONSink) Flush() error { return nil }

// Close is a no-op for JSON sink.
func (s *JSONSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *JSONSink) Name() string { return "json" }

// FileSink writes decision records to a file.
type FileSink struct {
	inner Sink
	file  *os.File
}

// NewFileSink creates a sink that writes to the given file path.
// The format parameter selects the inner formatter: "json" or "text".
func NewFileSink(path string, format string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}

	var inner Sink
	switch format {
	case "json":
		inner = NewJSONSink(f)
	default:
		inner = NewTerminalSink(f, false)
	}

	return &FileSink{inner: inner, file: f}, nil
}

// Write delegates to the inner sink.
func (s *FileSink) Write(r filter.Record) error {
	return s.inner.Write(r)
}

// Flush syncs the file to disk.
func (s *FileSink) Flush() error {
	return s.file.Sync()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

// Name returns the sink identifier.
func (s *FileSink) Name() string {
	return "file:" + s.file.Name()
}

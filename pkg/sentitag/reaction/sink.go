package reaction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Sink receives fired reactions.
type Sink interface {
	Emit(ctx context.Context, r Reaction) error
}

// LogSink logs each reaction.
type LogSink struct {
	Logger *slog.Logger
}

// Emit implements Sink.
func (s LogSink) Emit(ctx context.Context, r Reaction) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "reaction fired",
		"id", r.ID,
		"category", r.Category,
		"image_url", r.ImageURL,
		"message_index", r.MessageIndex,
		"expires_at", r.ExpiresAt,
	)
	return nil
}

// WriterSink writes each reaction as one JSON line.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink creates a sink writing JSON lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Emit implements Sink.
func (s *WriterSink) Emit(_ context.Context, r Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(r)
}

// MultiSink emits to every sink in order. A failing sink does not stop
// the others; their errors are joined.
type MultiSink []Sink

// Emit implements Sink.
func (m MultiSink) Emit(ctx context.Context, r Reaction) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

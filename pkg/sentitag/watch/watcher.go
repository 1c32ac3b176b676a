package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cognicore/sentitag/internal/metrics"
	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/chatlog"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/reaction"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

// DefaultInterval matches how often the chat page used to be re-checked.
const DefaultInterval = 500 * time.Millisecond

const metricsOrigin = "watch"

// maxPending bounds the records kept for retry while the store is failing.
const maxPending = 256

// Classifier is the subset of *sentitag.Classifier the watcher needs.
type Classifier interface {
	ClassifyValue(v any) (sentitag.Result, error)
}

// Options configures a Watcher. Source and Classifier are required; the
// rest are optional.
type Options struct {
	Source     chatlog.Source
	SourceName string
	Classifier Classifier
	Store      store.Store
	Reactions  *reaction.Engine
	Sink       reaction.Sink
	Interval   time.Duration
	Clock      clockwork.Clock
	Logger     *slog.Logger
	// OnEvent is called after each newly classified message.
	OnEvent func(Event)
}

// Event describes one newly classified message.
type Event struct {
	Message   chatlog.Message
	Result    sentitag.Result
	RecordID  string
	Reactions []reaction.Reaction
}

// Watcher polls a chat source and classifies each new latest message once.
// It is not safe for concurrent Poll calls.
type Watcher struct {
	opts Options

	seen      bool
	lastIndex int
	lastText  string
	lastNil   bool

	pending []store.Record
}

// New creates a watcher, filling defaults for interval, clock and logger.
func New(opts Options) (*Watcher, error) {
	if opts.Source == nil {
		return nil, errors.New("watch: source is required")
	}
	if opts.Classifier == nil {
		return nil, errors.New("watch: classifier is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{opts: opts}, nil
}

// Run polls until ctx is done. The first poll happens immediately.
// Poll failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := w.opts.Clock.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	w.opts.Logger.Info("watching chat source", "source", w.opts.SourceName, "interval", w.opts.Interval)
	w.pollAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			w.pollAndLog(ctx)
		}
	}
}

func (w *Watcher) pollAndLog(ctx context.Context) {
	if _, _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
		w.opts.Logger.Warn("poll failed", "source", w.opts.SourceName, "error", err)
	}
}

// Poll runs one iteration. changed is false when there is no message or
// the latest message is the one already handled.
//
// A message is handled once even when recording it fails: its reactions
// still fire, and the record is kept and saved again on later polls.
func (w *Watcher) Poll(ctx context.Context) (ev Event, changed bool, err error) {
	start := w.opts.Clock.Now()
	defer func() { metrics.PollDuration.Observe(w.opts.Clock.Since(start).Seconds()) }()

	var errs []error
	if err := w.flushPending(ctx); err != nil {
		errs = append(errs, err)
	}

	msg, ok, err := w.opts.Source.Latest(ctx)
	if err != nil {
		metrics.PollErrorsTotal.WithLabelValues("source").Inc()
		return Event{}, false, errors.Join(append(errs, fmt.Errorf("read source: %w", err))...)
	}
	if !ok || !w.markSeen(msg) {
		return Event{}, false, errors.Join(errs...)
	}

	res, err := w.opts.Classifier.ClassifyValue(msg.Text)
	if err != nil {
		metrics.ObserveInvalid(metricsOrigin)
		metrics.PollErrorsTotal.WithLabelValues("classify").Inc()
		return Event{}, false, errors.Join(append(errs, fmt.Errorf("classify message %d: %w", msg.Index, err))...)
	}
	metrics.ObserveResult(metricsOrigin, res)

	now := w.opts.Clock.Now()
	ev = Event{Message: msg, Result: res}

	w.opts.Logger.Debug("message classified",
		"index", msg.Index,
		"sentiments", res.String(),
	)

	if w.opts.Store != nil {
		rec := store.Record{
			ID:           store.NewID(now),
			Source:       w.opts.SourceName,
			MessageIndex: msg.Index,
			Text:         msg.TextOrEmpty(),
			Categories:   res.Categories(),
			Neutral:      res.IsNeutral(),
			ClassifiedAt: now,
		}
		if err := w.opts.Store.Save(ctx, rec); err != nil {
			metrics.PollErrorsTotal.WithLabelValues("store").Inc()
			if !errors.Is(err, internalerr.ErrInvalidInput) {
				w.queue(rec)
			}
			errs = append(errs, fmt.Errorf("save record: %w", err))
		} else {
			ev.RecordID = rec.ID
		}
	}

	if w.opts.Reactions != nil {
		ev.Reactions = w.opts.Reactions.Evaluate(res, msg.Index, now)
		for _, r := range ev.Reactions {
			metrics.ReactionsFiredTotal.WithLabelValues(string(r.Category)).Inc()
			if w.opts.Sink == nil {
				continue
			}
			if err := w.opts.Sink.Emit(ctx, r); err != nil {
				metrics.PollErrorsTotal.WithLabelValues("sink").Inc()
				errs = append(errs, fmt.Errorf("emit reaction: %w", err))
			}
		}
	}

	if w.opts.OnEvent != nil {
		w.opts.OnEvent(ev)
	}
	return ev, true, errors.Join(errs...)
}

// Pending returns how many records are waiting to be saved again.
func (w *Watcher) Pending() int {
	return len(w.pending)
}

func (w *Watcher) queue(rec store.Record) {
	if len(w.pending) >= maxPending {
		w.opts.Logger.Warn("dropping unsaved record", "id", w.pending[0].ID, "index", w.pending[0].MessageIndex)
		w.pending = w.pending[1:]
	}
	w.pending = append(w.pending, rec)
}

// flushPending saves queued records oldest first and stops at the first
// failure. Save is an upsert, so a retried record is never duplicated.
func (w *Watcher) flushPending(ctx context.Context) error {
	for len(w.pending) > 0 {
		rec := w.pending[0]
		if err := w.opts.Store.Save(ctx, rec); err != nil {
			metrics.PollErrorsTotal.WithLabelValues("store").Inc()
			return fmt.Errorf("retry record %s: %w", rec.ID, err)
		}
		w.pending = w.pending[1:]
	}
	return nil
}

// markSeen records msg as handled and reports whether it differs from the
// previous one. A message whose text changed under the same index (a
// streamed reply still being written) counts as new.
func (w *Watcher) markSeen(msg chatlog.Message) bool {
	text := msg.TextOrEmpty()
	isNil := msg.Text == nil
	if w.seen && msg.Index == w.lastIndex && text == w.lastText && isNil == w.lastNil {
		return false
	}
	w.seen = true
	w.lastIndex = msg.Index
	w.lastText = text
	w.lastNil = isNil
	return true
}

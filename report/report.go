// Package report fans structured failures out to interested observers. One
// reporter instance is shared by every controller and the consent
// coordinator; delivery is at-most-once and fire-and-forget, with no
// buffering, retry, or deduplication.
package report

import (
	"log/slog"
	"sync"

	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/pkg/observer"
)

// Reporter is the process-wide failure hub. The zero value is not usable;
// construct with New.
type Reporter struct {
	hub *observer.Hub[*flowerr.Error]

	mu       sync.Mutex
	callback func(*flowerr.Error)
	logger   *slog.Logger
}

// Option configures the Reporter.
type Option func(*Reporter)

// WithLogger sets the logger used to echo reported failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) { r.logger = logger }
}

// New constructs an empty reporter.
func New(opts ...Option) *Reporter {
	r := &Reporter{hub: observer.New[*flowerr.Error]()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report delivers err to every subscriber and to the registered callback, if
// any. Nil errors are ignored.
func (r *Reporter) Report(err *flowerr.Error) {
	if r == nil || err == nil {
		return
	}
	r.mu.Lock()
	cb := r.callback
	logger := r.logger
	r.mu.Unlock()

	if logger != nil {
		logger.Warn("ad flow failure",
			"category", string(err.Category),
			"code", err.Code,
			"unit", err.Unit,
			"error", err.Error(),
		)
	}
	r.hub.Publish(err)
	if cb != nil {
		cb(err)
	}
}

// Subscribe registers fn for every future report and returns its
// cancellation handle.
func (r *Reporter) Subscribe(fn func(*flowerr.Error)) *observer.Subscription {
	return r.hub.Subscribe(fn)
}

// SetCallback registers the single host callback, replacing any previous one.
func (r *Reporter) SetCallback(fn func(*flowerr.Error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callback = fn
}

// Reset clears the callback and drops every subscriber, returning the
// reporter to its freshly constructed state for test isolation.
func (r *Reporter) Reset() {
	r.mu.Lock()
	r.callback = nil
	r.mu.Unlock()
	r.hub.Reset()
}

// Close tears the reporter down; subsequent reports are dropped.
func (r *Reporter) Close() {
	r.mu.Lock()
	r.callback = nil
	r.mu.Unlock()
	r.hub.Close()
}

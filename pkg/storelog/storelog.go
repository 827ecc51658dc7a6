// Package storelog reports store events through a pluggable structured
// logger.
//
// Adapters for log/slog, zap and logrus live in the slog, zap and logrus
// subpackages.
package storelog

import (
	"sync/atomic"

	"github.com/vango-dev/vango-store/pkg/store"
)

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]any

// Logger is the minimal leveled logger the observer writes to.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// Options tune how much the observer logs.
type Options struct {
	// SelectorEvery logs one of every N selector evaluations.
	// Zero disables selector logging; evaluations are the noisiest event.
	SelectorEvery uint64

	// Publishes logs store notifications at debug level.
	Publishes bool
}

// Observer is a store.Observer that writes events to a Logger.
type Observer struct {
	log  Logger
	opts Options

	evaluations atomic.Uint64
}

var _ store.Observer = (*Observer)(nil)

// New returns an Observer writing to log. A nil log uses NopLogger.
func New(log Logger, opts Options) *Observer {
	if log == nil {
		log = NopLogger{}
	}
	return &Observer{log: log, opts: opts}
}

func (o *Observer) StoreMounted(name string) {
	o.log.Info("store mounted", Fields{"store": name})
}

func (o *Observer) StoreUnmounted(name string) {
	o.log.Info("store unmounted", Fields{"store": name})
}

func (o *Observer) Published(name string, listeners int) {
	if !o.opts.Publishes {
		return
	}
	o.log.Debug("store published", Fields{"store": name, "listeners": listeners})
}

func (o *Observer) SelectorEvaluated(name string, outcome store.Outcome) {
	if !o.sample() {
		return
	}
	o.log.Debug("selector evaluated", Fields{"store": name, "outcome": outcome.String()})
}

func (o *Observer) ConsumerInvalidated(name string, strategy store.Strategy) {
	o.log.Debug("consumer invalidated", Fields{"store": name, "strategy": strategy.String()})
}

func (o *Observer) sample() bool {
	if o.opts.SelectorEvery == 0 {
		return false
	}
	n := o.evaluations.Add(1)
	return (n-1)%o.opts.SelectorEvery == 0
}

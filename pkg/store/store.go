package store

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/vango-store/pkg/vango"
)

// Store holds the value a provider shares with its subtree, together with
// the listeners interested in changes to it.
//
// Update replaces the value without telling anyone; Notify tells every
// registered listener. A provider stages values with Update while it
// renders and publishes them with Notify after the render commits.
//
// Notify calls the listeners registered when it was invoked, in the order
// they subscribed. A listener that subscribes while a Notify is running is
// not called by that Notify. A listener removed while a Notify is running
// is not called afterwards, even if that Notify had not reached it yet.
type Store[V any] struct {
	name     string
	observer Observer
	logger   *slog.Logger

	mu    sync.RWMutex
	value V

	listenersMu sync.Mutex
	listeners   map[uint64]*registration
	seq         uint64

	disposed atomic.Bool
}

// registration is one entry of the listener registry.
type registration struct {
	key     uint64
	seq     uint64
	fn      func()
	removed atomic.Bool
}

// NewStore creates a standalone store holding value. Stores created by a
// Provider are configured from the provider's options instead.
func NewStore[V any](value V, opts ...Option) *Store[V] {
	cfg := newConfig[V](opts)
	return newStore(cfg, value)
}

func newStore[V any](cfg Config, value V) *Store[V] {
	return &Store[V]{
		name:      cfg.Name,
		observer:  cfg.Observer,
		logger:    cfg.Logger,
		value:     value,
		listeners: make(map[uint64]*registration),
	}
}

// Name returns the store's name, used in logs, errors and metrics.
func (s *Store[V]) Name() string {
	return s.name
}

// Get returns the current value.
func (s *Store[V]) Get() V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Update replaces the current value. Listeners are not notified.
func (s *Store[V]) Update(v V) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Notify calls every registered listener once.
//
// Called while a component renders, the call is deferred until that
// render pass commits, so no listener ever observes a value the rest of
// the tree has not committed.
func (s *Store[V]) Notify() {
	if vango.DeferUntilCommit(s.notify) {
		s.logger.Debug("notify deferred until commit", "store", s.name)
		return
	}
	s.notify()
}

func (s *Store[V]) notify() {
	if s.disposed.Load() {
		return
	}

	s.listenersMu.Lock()
	regs := make([]*registration, 0, len(s.listeners))
	for _, reg := range s.listeners {
		regs = append(regs, reg)
	}
	s.listenersMu.Unlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].seq < regs[j].seq })

	s.observer.Published(s.name, len(regs))
	s.logger.Debug("store published", "store", s.name, "listeners", len(regs))

	for _, reg := range regs {
		if reg.removed.Load() {
			continue
		}
		reg.fn()
	}
}

// Subscribe registers fn and returns the function that removes it.
//
// Every call creates a new registration: subscribing the same function
// twice makes a Notify call it twice. Use SubscribeListener for set
// semantics. The returned function may be called any number of times.
func (s *Store[V]) Subscribe(fn func()) (unsubscribe func()) {
	return s.subscribe(vango.NextID(), fn)
}

// SubscribeListener registers l and returns the function that removes it.
//
// Listeners are keyed by ID: while l is registered, subscribing it again
// keeps the single existing registration and returns an unsubscribe for
// it. Notify marks l dirty.
func (s *Store[V]) SubscribeListener(l vango.Listener) (unsubscribe func()) {
	return s.subscribe(l.ID(), l.MarkDirty)
}

func (s *Store[V]) subscribe(key uint64, fn func()) func() {
	if s.disposed.Load() {
		return func() {}
	}

	s.listenersMu.Lock()
	reg, ok := s.listeners[key]
	if !ok {
		s.seq++
		reg = &registration{key: key, seq: s.seq, fn: fn}
		s.listeners[key] = reg
	}
	s.listenersMu.Unlock()

	return func() {
		s.remove(reg)
	}
}

// remove drops reg if it is still the registration for its key.
func (s *Store[V]) remove(reg *registration) {
	reg.removed.Store(true)

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	if current, ok := s.listeners[reg.key]; ok && current == reg {
		delete(s.listeners, reg.key)
	}
}

// Len returns the number of registered listeners.
func (s *Store[V]) Len() int {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	return len(s.listeners)
}

// dispose discards the listener registry. A disposed store accepts no
// subscriptions and its Notify does nothing.
func (s *Store[V]) dispose() {
	if s.disposed.Swap(true) {
		return
	}

	s.listenersMu.Lock()
	regs := s.listeners
	s.listeners = make(map[uint64]*registration)
	s.listenersMu.Unlock()

	for _, reg := range regs {
		reg.removed.Store(true)
	}
}

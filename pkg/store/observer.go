package store

// Observer receives store events. Implementations MUST be cheap and
// non-blocking: the store calls them while rendering and committing.
type Observer interface {
	// A provider instance committed its first render and its store is live.
	StoreMounted(store string)

	// A provider instance unmounted and its listener registry was discarded.
	StoreUnmounted(store string)

	// Notify ran with the given number of listeners.
	Published(store string, listeners int)

	// A consumer read its selection. outcome tells whether the cached
	// selection was returned as is, kept after recomputation, or replaced.
	// Cached outcomes are reported only for reads made while rendering;
	// re-validation by the runtime is not counted.
	SelectorEvaluated(store string, outcome Outcome)

	// A consumer's selection changed after it was first computed, so the
	// consumer has to render again.
	ConsumerInvalidated(store string, strategy Strategy)
}

// NopObserver is the default no-op.
type NopObserver struct{}

func (NopObserver) StoreMounted(string)                  {}
func (NopObserver) StoreUnmounted(string)                {}
func (NopObserver) Published(string, int)                {}
func (NopObserver) SelectorEvaluated(string, Outcome)    {}
func (NopObserver) ConsumerInvalidated(string, Strategy) {}

// Observers fans every event out to each of obs, in order. Nil entries are
// skipped.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) StoreMounted(store string) {
	for _, o := range m {
		o.StoreMounted(store)
	}
}

func (m multiObserver) StoreUnmounted(store string) {
	for _, o := range m {
		o.StoreUnmounted(store)
	}
}

func (m multiObserver) Published(store string, listeners int) {
	for _, o := range m {
		o.Published(store, listeners)
	}
}

func (m multiObserver) SelectorEvaluated(store string, outcome Outcome) {
	for _, o := range m {
		o.SelectorEvaluated(store, outcome)
	}
}

func (m multiObserver) ConsumerInvalidated(store string, strategy Strategy) {
	for _, o := range m {
		o.ConsumerInvalidated(store, strategy)
	}
}

// Package errors provides structured, actionable error values for the
// store runtime.
//
// Every misuse of the runtime or a store surfaces as a *VangoError:
//   - a stable code (e.g. "S001") that maps to a registered template
//   - a short message and a longer explanation
//   - an optional suggestion on how to fix the call site
//   - an optional wrapped sentinel so errors.Is keeps working
//
// # Error Categories
//
//   - runtime: render/commit driver and hook misuse
//   - store: provider and consumer misuse
//
// # Usage
//
//	err := errors.New("S001").
//	    WithDetail("Counter.Use called outside Counter.Provider").
//	    Wrap(store.ErrUnboundStore)
//
//	errors.Printer{}.Fprint(os.Stderr, err)
//	// Output:
//	// ERROR S001: Store used outside its provider
//	//
//	//   Counter.Use called outside Counter.Provider
//	//
//	//   Hint: Mount the consumer below a component that renders Counter.Provider
package errors

package store

import "errors"

// ErrUnboundStore is wrapped by the panic raised when a consumer reads a
// store with no matching provider above it.
var ErrUnboundStore = errors.New("store: no provider in scope")

// ErrInvalidRef is wrapped by the panic raised when a provider is given a
// ref that is neither nil, a func receiving the value, nor a RefTarget.
var ErrInvalidRef = errors.New("store: invalid provider ref")

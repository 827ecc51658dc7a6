// Package shallow implements the one-level structural equality used by
// stores and selectors to decide whether a derived value really changed.
//
// Comparison is a closed dispatch over a small set of value shapes:
//
//	Nil        nil interfaces, pointers, maps, slices, funcs, channels
//	Primitive  booleans, numbers, strings, funcs, channels
//	Sequence   slices and arrays
//	Record     structs and non-nil pointers to structs
//	Opaque     maps (associative map and set containers)
//
// Identical answers "is this the same value": scalars compare by value,
// reference types by address. Equal additionally accepts two sequences
// or two records whose elements or fields are pairwise Identical.
// Nested structures are never recursed into beyond that one level.
//
// Two distinct maps are never Equal, even with identical contents. This
// is a documented limitation of a shallow comparator, not a bug.
//
// NaN is Identical to NaN. Without that, a selector that yields NaN
// would be reported as changed on every read.
package shallow

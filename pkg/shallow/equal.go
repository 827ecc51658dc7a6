package shallow

import "reflect"

// Comparator reports whether two values should be treated as the same.
type Comparator[T any] func(a, b T) bool

// Identical reports whether a and b are the same value: equal scalars,
// the same address for reference types, and element-wise identical
// arrays and struct values.
func Identical(a, b any) bool {
	return identical(reflect.ValueOf(a), reflect.ValueOf(b))
}

// Equal reports whether a and b are shallowly equal.
func Equal(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if identical(va, vb) {
		return true
	}

	sa, sb := shapeOf(va), shapeOf(vb)
	if sa != sb {
		return false
	}

	switch sa {
	case Sequence:
		return equalSequence(unwrap(va), unwrap(vb))
	case Record:
		return equalRecord(unwrap(va), unwrap(vb))
	default:
		// Nil, Primitive and Opaque values only match by identity.
		return false
	}
}

// EqualOf adapts Equal to a typed Comparator.
func EqualOf[T any]() Comparator[T] {
	return func(a, b T) bool {
		return Equal(a, b)
	}
}

// IdenticalOf adapts Identical to a typed Comparator.
func IdenticalOf[T any]() Comparator[T] {
	return func(a, b T) bool {
		return Identical(a, b)
	}
}

func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func equalSequence(a, b reflect.Value) bool {
	if a.Type() != b.Type() || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !identical(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

func equalRecord(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.Kind() == reflect.Pointer {
		a, b = a.Elem(), b.Elem()
	}
	for i := 0; i < a.NumField(); i++ {
		if !identical(a.Field(i), b.Field(i)) {
			return false
		}
	}
	return true
}

func identical(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.IsNil() == b.IsNil() && a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return identical(a.Elem(), b.Elem())
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !identical(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !identical(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// sameFloat is == except that NaN matches NaN.
func sameFloat(x, y float64) bool {
	return x == y || (x != x && y != y)
}

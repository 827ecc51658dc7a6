package shallow

import "reflect"

// Shape classifies a value for comparison purposes.
type Shape uint8

const (
	Nil Shape = iota
	Primitive
	Sequence
	Record
	Opaque
)

// String returns a human-readable name for the shape.
func (s Shape) String() string {
	switch s {
	case Nil:
		return "Nil"
	case Primitive:
		return "Primitive"
	case Sequence:
		return "Sequence"
	case Record:
		return "Record"
	case Opaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// ShapeOf classifies v.
func ShapeOf(v any) Shape {
	return shapeOf(reflect.ValueOf(v))
}

func shapeOf(v reflect.Value) Shape {
	if !v.IsValid() {
		return Nil
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return Nil
		}
		return shapeOf(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return Nil
		}
		if v.Elem().Kind() == reflect.Struct {
			return Record
		}
		return Primitive
	case reflect.Slice:
		if v.IsNil() {
			return Nil
		}
		return Sequence
	case reflect.Array:
		return Sequence
	case reflect.Struct:
		return Record
	case reflect.Map:
		if v.IsNil() {
			return Nil
		}
		return Opaque
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return Nil
		}
		return Primitive
	default:
		return Primitive
	}
}

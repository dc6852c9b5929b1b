package typedesc

import "reflect"

// Type describes a (possibly unresolvable) event type.
// It is a comparable value; the zero value is None.
type Type struct {
	rt   reflect.Type
	name string
}

// None is the descriptor for "no type".
// It never resolves and is assignable from nothing, including itself.
var None = Type{}

// For returns the descriptor for the type parameter T.
// T may be a concrete type or an interface type.
func For[T any]() Type {
	return Type{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// Of returns the descriptor for a reflected type.
// A nil type yields None.
func Of(rt reflect.Type) Type {
	if rt == nil {
		return None
	}
	return Type{rt: rt}
}

// ForInstance returns the descriptor for the dynamic type of v.
// A nil value yields None.
func ForInstance(v any) Type {
	return Of(reflect.TypeOf(v))
}

// Named returns a symbolic descriptor for a type known only by name,
// such as a type named in a wire envelope with no Go counterpart in
// this process. Named descriptors never resolve.
func Named(name string) Type {
	return Type{name: name}
}

// Resolve returns the concrete runtime type and whether one is known.
// It reports false for None and for symbolic descriptors.
func (t Type) Resolve() (reflect.Type, bool) {
	return t.rt, t.rt != nil
}

// AssignableFrom reports whether a value of type other can be assigned
// to this type, i.e. other is this type or a subtype of it. It reports
// false whenever either descriptor does not resolve.
func (t Type) AssignableFrom(other Type) bool {
	if t.rt == nil || other.rt == nil {
		return false
	}
	return other.rt.AssignableTo(t.rt)
}

// IsNone reports whether this is the None sentinel.
func (t Type) IsNone() bool {
	return t.rt == nil && t.name == ""
}

// String returns a human-readable form for logs and errors.
func (t Type) String() string {
	switch {
	case t.rt != nil:
		return t.rt.String()
	case t.name != "":
		return t.name
	default:
		return "<none>"
	}
}

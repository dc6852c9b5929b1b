package eventcast

import "reflect"

// ListenerWrapper is implemented by listener decorators. It follows the
// errors.Unwrap convention: UnwrapListener returns the next listener in
// the chain. Every middleware in this package implements it, which lets
// the resolver see through decoration to the listener that actually
// declares an event type.
type ListenerWrapper interface {
	UnwrapListener() Listener
}

// Unwrapper reports the underlying target type of a possibly wrapped
// listener. It is a pluggable collaborator: decoration schemes that do
// not use ListenerWrapper supply their own implementation through
// WithUnwrapper.
type Unwrapper interface {
	// TargetType returns the concrete type of the innermost listener.
	// For an unwrapped listener this is the listener's own type.
	TargetType(l Listener) reflect.Type
}

// UnwrapperFunc adapts a function to the Unwrapper interface.
type UnwrapperFunc func(l Listener) reflect.Type

// TargetType implements Unwrapper.
func (f UnwrapperFunc) TargetType(l Listener) reflect.Type {
	return f(l)
}

// unwrapDepthLimit bounds wrapper-chain walks. A chain this deep is a
// wrapping cycle, and the walk stops rather than spinning.
const unwrapDepthLimit = 64

// DefaultUnwrapper follows the ListenerWrapper chain to the innermost
// listener and reports its type. It is the identity for listeners that
// are not wrapped.
var DefaultUnwrapper Unwrapper = UnwrapperFunc(func(l Listener) reflect.Type {
	for i := 0; i < unwrapDepthLimit; i++ {
		w, ok := l.(ListenerWrapper)
		if !ok {
			break
		}
		inner := w.UnwrapListener()
		if inner == nil {
			break
		}
		l = inner
	}
	return reflect.TypeOf(l)
})

// IdentityUnwrapper never unwraps. It disables wrapper-aware
// re-resolution of declared event types.
var IdentityUnwrapper Unwrapper = UnwrapperFunc(func(l Listener) reflect.Type {
	return reflect.TypeOf(l)
})

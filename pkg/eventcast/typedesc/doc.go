/*
Package typedesc provides lightweight type descriptors for event matching.

# Overview

typedesc wraps reflect.Type in a small comparable value, Type, that adds
two things matching code needs: a distinguished None sentinel for "no type
known", and symbolic descriptors for types that are known only by name
(for example a type named in a wire envelope that this process has no Go
type for). Descriptors answer the two questions the dispatch layer asks:

  - Resolve: what is the concrete runtime type, if any?
  - AssignableFrom: is some other type a subtype-or-equal of this one?

# Basic Usage

	jobEvents := typedesc.For[JobEvent]()          // from a type parameter
	fired := typedesc.ForInstance(evt)             // from a live value
	if jobEvents.AssignableFrom(fired) {
	    // evt satisfies JobEvent
	}

Symbolic descriptors never resolve and never match:

	remote := typedesc.Named("billing.InvoicePaid")
	_, ok := remote.Resolve() // ok == false

# The None Sentinel

The zero Type is None. It means "no type": Resolve fails, AssignableFrom
is always false, IsNone reports true. Callers use None where an optional
descriptor is absent, so a map entry holding None is distinguishable from
a missing entry.
*/
package typedesc

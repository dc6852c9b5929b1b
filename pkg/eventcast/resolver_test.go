package eventcast

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclaredEventType(t *testing.T) {
	r, _ := freshResolver()

	t.Run("marker declaration is read from the concrete type", func(t *testing.T) {
		declared := r.DeclaredEventType(&orderListener{})
		assert.Equal(t, typedesc.For[orderEvent](), declared)
	})

	t.Run("ListenerOf carries the marker", func(t *testing.T) {
		l := ListenerOf[bulkOrderEvent](func(context.Context, bulkOrderEvent) error { return nil })
		declared := r.DeclaredEventType(l)
		assert.Equal(t, typedesc.For[bulkOrderEvent](), declared)
	})

	t.Run("listener without a marker declares nothing", func(t *testing.T) {
		declared := r.DeclaredEventType(&recordingListener{})
		assert.True(t, declared.IsNone())
	})

	t.Run("nil listener declares nothing", func(t *testing.T) {
		declared := r.DeclaredEventType(nil)
		assert.True(t, declared.IsNone())
	})

	t.Run("root-typed marker is kept but narrows nothing", func(t *testing.T) {
		declared := r.DeclaredEventType(&widenedListener{})
		assert.Equal(t, typedesc.For[Event](), declared)
	})
}

func TestDeclaredEventType_WrapperRecovery(t *testing.T) {
	t.Run("single wrapper", func(t *testing.T) {
		r, _ := freshResolver()
		wrapped := &forwardingWrapper{next: &orderListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.Equal(t, typedesc.For[orderEvent](), declared)
	})

	t.Run("middleware chain", func(t *testing.T) {
		r, _ := freshResolver()
		wrapped := Chain(&bulkOrderListener{},
			RecoveryMiddleware(),
			LoggingMiddleware(nil),
			MetricsMiddleware(&captureMetrics{}),
		)

		declared := r.DeclaredEventType(wrapped)
		assert.Equal(t, typedesc.For[bulkOrderEvent](), declared)
	})

	t.Run("opaque wrapper hides the declaration", func(t *testing.T) {
		r, _ := freshResolver()
		wrapped := &opaqueWrapper{next: &orderListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.True(t, declared.IsNone())
	})

	t.Run("wrapper around an unmarked listener stays undeclared", func(t *testing.T) {
		r, _ := freshResolver()
		wrapped := &forwardingWrapper{next: &recordingListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.True(t, declared.IsNone())
	})

	t.Run("target result replaces the direct one even when trivial", func(t *testing.T) {
		r, _ := freshResolver()
		wrapped := &forwardingWrapper{next: &widenedListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.Equal(t, typedesc.For[Event](), declared)
	})
}

func TestDeclaredEventType_UnwrapperConfiguration(t *testing.T) {
	t.Run("IdentityUnwrapper disables recovery", func(t *testing.T) {
		r, _ := freshResolver(WithUnwrapper(IdentityUnwrapper))
		wrapped := &forwardingWrapper{next: &orderListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.True(t, declared.IsNone())
	})

	t.Run("custom unwrapper sees through foreign wrappers", func(t *testing.T) {
		seeThrough := UnwrapperFunc(func(l Listener) reflect.Type {
			if w, ok := l.(*opaqueWrapper); ok {
				return reflect.TypeOf(w.next)
			}
			return reflect.TypeOf(l)
		})
		r, _ := freshResolver(WithUnwrapper(seeThrough))
		wrapped := &opaqueWrapper{next: &orderListener{}}

		declared := r.DeclaredEventType(wrapped)
		assert.Equal(t, typedesc.For[orderEvent](), declared)
	})
}

func TestDeclaredEventType_Caching(t *testing.T) {
	t.Run("one entry per concrete listener type", func(t *testing.T) {
		r, cache := freshResolver()
		l := &orderListener{}

		r.DeclaredEventType(l)
		assert.Equal(t, 1, cache.Len())

		// Same type again, even via another instance
		r.DeclaredEventType(&orderListener{})
		assert.Equal(t, 1, cache.Len())

		d, ok := cache.Lookup(reflect.TypeOf(l))
		require.True(t, ok)
		assert.Equal(t, typedesc.For[orderEvent](), d)
	})

	t.Run("declares-nothing results are cached too", func(t *testing.T) {
		r, cache := freshResolver()
		l := &recordingListener{}

		r.DeclaredEventType(l)

		d, ok := cache.Lookup(reflect.TypeOf(l))
		require.True(t, ok, "None must be stored, not recomputed")
		assert.True(t, d.IsNone())
	})

	t.Run("wrapper resolution caches wrapper and target types", func(t *testing.T) {
		r, cache := freshResolver()
		inner := &orderListener{}
		wrapped := &forwardingWrapper{next: inner}

		r.DeclaredEventType(wrapped)

		assert.Equal(t, 2, cache.Len())
		_, wrapperCached := cache.Lookup(reflect.TypeOf(wrapped))
		_, targetCached := cache.Lookup(reflect.TypeOf(inner))
		assert.True(t, wrapperCached)
		assert.True(t, targetCached)
	})
}

func TestDeclaredEventType_Metrics(t *testing.T) {
	t.Run("narrowed outcome", func(t *testing.T) {
		metrics := &captureMetrics{}
		r, _ := freshResolver(WithMetrics(metrics))

		r.DeclaredEventType(&orderListener{})
		r.DeclaredEventType(&orderListener{})

		snap := metrics.snapshot()
		assert.Equal(t, []string{"narrowed", "narrowed"}, snap.resolutions)
		assert.Equal(t, 1, snap.misses)
		assert.Equal(t, 1, snap.hits)
	})

	t.Run("unfiltered outcome", func(t *testing.T) {
		metrics := &captureMetrics{}
		r, _ := freshResolver(WithMetrics(metrics))

		r.DeclaredEventType(&recordingListener{})

		snap := metrics.snapshot()
		assert.Equal(t, []string{"unfiltered"}, snap.resolutions)
		assert.Equal(t, 1, snap.misses)
		assert.Equal(t, 0, snap.hits)
	})

	t.Run("recovered outcome", func(t *testing.T) {
		metrics := &captureMetrics{}
		r, _ := freshResolver(WithMetrics(metrics))

		r.DeclaredEventType(&forwardingWrapper{next: &orderListener{}})

		snap := metrics.snapshot()
		assert.Equal(t, []string{"recovered"}, snap.resolutions)
		assert.Equal(t, 2, snap.misses, "wrapper and target probes both miss")
	})
}

// Thread-safety tests

func TestDeclaredEventType_Concurrent(t *testing.T) {
	r, cache := freshResolver()
	var wg sync.WaitGroup
	n := 50

	results := make([]typedesc.Type, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = r.DeclaredEventType(&orderListener{})
		}(i)
	}

	wg.Wait()

	for _, d := range results {
		assert.Equal(t, typedesc.For[orderEvent](), d)
	}
	assert.Equal(t, 1, cache.Len())
}

// Edge cases

// badEmbedListener embeds the marker through a nil pointer. Probing it
// must fail soft, never panic.
type badEmbedListener struct {
	*Typed[orderEvent]
	recordingListener
}

func TestProbeDeclaredType_EdgeCases(t *testing.T) {
	t.Run("nil type", func(t *testing.T) {
		assert.True(t, probeDeclaredType(nil).IsNone())
	})

	t.Run("pointer marker embedding reads as no declaration", func(t *testing.T) {
		var declared typedesc.Type
		assert.NotPanics(t, func() {
			declared = probeDeclaredType(reflect.TypeOf(&badEmbedListener{}))
		})
		assert.True(t, declared.IsNone())
	})

	t.Run("non-listener type declares nothing", func(t *testing.T) {
		assert.True(t, probeDeclaredType(reflect.TypeOf(42)).IsNone())
	})
}

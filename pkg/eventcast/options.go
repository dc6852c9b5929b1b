package eventcast

import (
	"log/slog"

	"github.com/randalmurphal/eventcast/pkg/eventcast/config"
	"github.com/randalmurphal/eventcast/pkg/eventcast/observability"
)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache gives the resolver a private declared-type cache.
// Default: one process-wide cache shared by all resolvers.
func WithCache(c *TypeCache) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithUnwrapper sets the unwrapper used to recover the target type of
// wrapped listeners. Default: DefaultUnwrapper. Pass IdentityUnwrapper
// to disable wrapper-aware re-resolution.
func WithUnwrapper(u Unwrapper) ResolverOption {
	return func(r *Resolver) {
		if u != nil {
			r.unwrapper = u
		}
	}
}

// WithLogger sets the logger for classification and resolution events.
// Default: no logging.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder for cache and resolution
// instrumentation. Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) ResolverOption {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// adapterConfig holds construction options for ListenerAdapter.
type adapterConfig struct {
	resolver *Resolver
}

// AdapterOption configures adapter construction.
type AdapterOption func(*adapterConfig)

// WithResolver sets the resolver used for declared-type inference.
// Default: a package-level resolver backed by the shared cache.
func WithResolver(r *Resolver) AdapterOption {
	return func(cfg *adapterConfig) {
		if r != nil {
			cfg.resolver = r
		}
	}
}

// ResolverFromConfig builds a resolver from an application config map.
// Recognized keys, all optional:
//
//	matching:
//	  unwrap_wrappers: true    # follow ListenerWrapper chains (default true)
//	observability:
//	  metrics: false           # record OpenTelemetry metrics (default false)
//
// Unknown keys are ignored, so the section can live inside a larger
// application config file.
func ResolverFromConfig(cfg config.Config) *Resolver {
	var opts []ResolverOption

	matching := cfg.Sub("matching")
	if !matching.Bool("unwrap_wrappers", true) {
		opts = append(opts, WithUnwrapper(IdentityUnwrapper))
	}

	obs := cfg.Sub("observability")
	if obs.Bool("metrics", false) {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}

	return NewResolver(opts...)
}

package library

import (
	"fmt"

	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/sync/singleflight"

	"github.com/c360studio/standardslib/model"
)

// Metrics counts lookups per category. A nil *Metrics records nothing.
type Metrics struct {
	registry   *metric.MetricsRegistry
	lookups    *prometheus.CounterVec
	hydrations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewMetrics creates the library counters and registers them with registry.
func NewMetrics(registry *metric.MetricsRegistry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "standardslib",
			Subsystem: "library",
			Name:      "lookups_total",
			Help:      "Total number of library lookups",
		}, []string{"category"}),
		hydrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "standardslib",
			Subsystem: "library",
			Name:      "hydrations_total",
			Help:      "Total number of objects built from canonical records",
		}, []string{"category"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "standardslib",
			Subsystem: "library",
			Name:      "failures_total",
			Help:      "Total number of lookups that returned an error",
		}, []string{"category"}),
	}
	if err := registry.RegisterCounterVec("library", "lookups", m.lookups); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("library", "hydrations", m.hydrations); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("library", "failures", m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) lookup(c Category) {
	if m != nil {
		m.lookups.WithLabelValues(string(c)).Inc()
	}
}

func (m *Metrics) hydrated(c Category) {
	if m != nil {
		m.hydrations.WithLabelValues(string(c)).Inc()
	}
}

func (m *Metrics) failed(c Category) {
	if m != nil {
		m.failures.WithLabelValues(string(c)).Inc()
	}
}

// Counts is a snapshot of the counters of one category.
type Counts struct {
	Lookups    float64
	Hydrations float64
	Failures   float64
}

// Snapshot reads the current counter values of category c.
func (m *Metrics) Snapshot(c Category) (Counts, error) {
	if m == nil {
		return Counts{}, nil
	}
	var out Counts
	for _, f := range []struct {
		vec *prometheus.CounterVec
		dst *float64
	}{
		{m.lookups, &out.Lookups},
		{m.hydrations, &out.Hydrations},
		{m.failures, &out.Failures},
	} {
		var pb dto.Metric
		if err := f.vec.WithLabelValues(string(c)).Write(&pb); err != nil {
			return Counts{}, fmt.Errorf("read %s counter: %w", c, err)
		}
		*f.dst = pb.GetCounter().GetValue()
	}
	return out, nil
}

// Cache holds the hydrated objects of one category. Each identifier is
// hydrated at most once; concurrent callers for the same identifier share
// the first caller's result. Failed hydrations are not cached.
type Cache[V model.Object] struct {
	category Category
	store    cache.Cache[V]
	group    singleflight.Group
	metrics  *Metrics
}

// NewCache creates an empty cache for a category. When metrics is non-nil
// the underlying store also reports hit and miss counters.
func NewCache[V model.Object](category Category, metrics *Metrics) (*Cache[V], error) {
	var opts []cache.Option[V]
	if metrics != nil {
		opts = append(opts, cache.WithMetrics[V](metrics.registry, "library_"+string(category)))
	}
	store, err := cache.NewSimple[V](opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", category, err)
	}
	return &Cache[V]{category: category, store: store, metrics: metrics}, nil
}

// Get returns the cached object for id without hydrating.
func (c *Cache[V]) Get(id string) (V, bool) {
	return c.store.Get(id)
}

// GetOrHydrate returns the cached object for id, calling hydrate to build
// it on the first request. The built object is locked before it is shared.
func (c *Cache[V]) GetOrHydrate(id string, hydrate func() (V, error)) (V, error) {
	c.metrics.lookup(c.category)
	if v, ok := c.store.Get(id); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(id, func() (any, error) {
		if v, ok := c.store.Get(id); ok {
			return v, nil
		}
		v, err := hydrate()
		if err != nil {
			return nil, err
		}
		v.Lock()
		if _, err := c.store.Set(id, v); err != nil {
			return nil, fmt.Errorf("cache %s %s: %w", c.category, id, err)
		}
		c.metrics.hydrated(c.category)
		return v, nil
	})
	if err != nil {
		c.metrics.failed(c.category)
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of hydrated objects.
func (c *Cache[V]) Len() int {
	return c.store.Size()
}

// Stats returns the store's hit and miss statistics.
func (c *Cache[V]) Stats() cache.StatsSummary {
	return c.store.Stats().Summary()
}

// Close releases the underlying store.
func (c *Cache[V]) Close() error {
	return c.store.Close()
}

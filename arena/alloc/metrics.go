package alloc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	directionForward  = "forward"
	directionBackward = "backward"

	reasonGrowRefused = "grow_refused"
	reasonTooLarge    = "too_large"
	reasonNoSpace     = "no_space"
)

// Metrics exposes allocator activity to Prometheus. One Metrics may be shared
// by several allocators; the counters then aggregate across them.
type Metrics struct {
	allocations prometheus.Counter
	failures    *prometheus.CounterVec
	frees       prometheus.Counter
	grows       prometheus.Counter
	grownBytes  prometheus.Counter
	splits      prometheus.Counter
	coalesces   *prometheus.CounterVec
	freeBytes   prometheus.Gauge
	arenaBytes  prometheus.Gauge
}

// NewMetrics registers the allocator metrics with reg. A nil reg creates
// unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		allocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "allocations_total",
			Help:      "Total number of successful allocations.",
		}),
		failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "allocation_failures_total",
			Help:      "Total number of allocations that returned the null offset, by reason.",
		}, []string{"reason"}),
		frees: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "frees_total",
			Help:      "Total number of non-null frees.",
		}),
		grows: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "grows_total",
			Help:      "Total number of successful arena growths.",
		}),
		grownBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "grown_bytes_total",
			Help:      "Total bytes added to the arena by growth.",
		}),
		splits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "splits_total",
			Help:      "Total number of free blocks split to satisfy an allocation.",
		}),
		coalesces: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "coalesces_total",
			Help:      "Total number of free-block merges, by direction.",
		}, []string{"direction"}),
		freeBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "free_bytes",
			Help:      "Payload bytes currently on the free list.",
		}),
		arenaBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "allocator",
			Name:      "arena_bytes",
			Help:      "Current arena size in bytes.",
		}),
	}
}

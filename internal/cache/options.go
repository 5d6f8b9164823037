package cache

import "time"

const (
	DefaultMaxSize       = 1000
	DefaultTTL           = 30 * time.Second
	DefaultSweepInterval = 60 * time.Second
)

// EvictReason explains why an entry was removed without an explicit Delete.
type EvictReason int

const (
	// EvictTTL - expired, found either on Get or by the cleanup sweep.
	EvictTTL EvictReason = iota
	// EvictCapacity - least recently used entry dropped to make room for a new key.
	EvictCapacity
)

func (r EvictReason) String() string {
	switch r {
	case EvictTTL:
		return "ttl"
	case EvictCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Metrics receives store level signals. NoopMetrics is used when none is configured.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// MetricsFactory builds the Metrics for a namespace when the Registry creates its store.
type MetricsFactory func(namespace string) Metrics

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

var _ Metrics = NoopMetrics{}

// Clock provides the current time; tests swap in a fake one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Store. Zero values get the defaults above, except SweepInterval
// where a negative value disables the background sweep entirely.
type Options struct {
	// MaxSize is the entry limit of a single namespace.
	MaxSize int
	// DefaultTTL applies when Set is called with ttl <= 0.
	DefaultTTL time.Duration
	// SweepInterval is the period of the proactive expiry scan.
	SweepInterval time.Duration

	Clock   Clock
	Metrics Metrics
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = DefaultTTL
	}
	if o.SweepInterval == 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	return o
}

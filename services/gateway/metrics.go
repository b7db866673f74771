package gateway

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend round-trips.
type Metrics struct {
	duration *prometheus.HistogramVec
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns collectors registered with the global registry.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics registers the gateway collectors with reg and panics on a
// registration conflict that cannot be resolved by reuse.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sanket",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of analysis backend calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"op", "outcome"},
	)
	if err := reg.Register(duration); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		duration = already.ExistingCollector.(*prometheus.HistogramVec)
	}
	return &Metrics{duration: duration}
}

func (m *Metrics) observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op, outcome(err)).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *NetworkError:
		return "network_error"
	case *APIError:
		return "api_error"
	case *PartialDataError:
		return "partial_data"
	default:
		return "error"
	}
}

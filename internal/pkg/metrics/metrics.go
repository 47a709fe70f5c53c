package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

// Bridge collects per-call counters and latency. It satisfies
// usecase.Observer.
type Bridge struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewBridge(reg prometheus.Registerer) *Bridge {
	b := &Bridge{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nativebridge",
			Name:      "calls_total",
			Help:      "Settled method calls by channel, method and result.",
		}, []string{"channel", "method", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nativebridge",
			Name:      "call_duration_seconds",
			Help:      "Time from dispatch to settled outcome.",
			Buckets:   []float64{.005, .05, .25, 1, 2.5, 5, 15, 30, 60, 120},
		}, []string{"channel", "method"}),
	}
	reg.MustRegister(b.calls, b.duration)
	return b
}

func (b *Bridge) ObserveOutcome(channel, method string, out domain.Outcome, elapsed time.Duration) {
	if out.Kind == domain.OutcomeNotImplemented {
		// unbounded label values
		method = "other"
	}
	b.calls.WithLabelValues(channel, method, out.Label()).Inc()
	b.duration.WithLabelValues(channel, method).Observe(elapsed.Seconds())
}

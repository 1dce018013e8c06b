package metrics

import (
	"strconv"
	"time"

	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records dispatch outcomes per route rule.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector registers the client metrics on reg. A nil reg registers on the
// default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsConfig.Namespace,
				Subsystem: constants.MetricsConfig.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched comment service requests",
			},
			[]string{"method", "rule", "status", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsConfig.Namespace,
				Subsystem: constants.MetricsConfig.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Comment service request duration in seconds",
				Buckets:   constants.MetricsConfig.Buckets,
			},
			[]string{"method", "rule"},
		),
	}
}

// ObserveDispatch implements dispatch.Observer. status is 0 for transport failures.
func (c *Collector) ObserveDispatch(method, rule string, status int, outcome string, elapsed time.Duration) {
	if rule == "" {
		rule = "unmatched"
	}
	c.requests.WithLabelValues(method, rule, strconv.Itoa(status), outcome).Inc()
	c.duration.WithLabelValues(method, rule).Observe(elapsed.Seconds())
}

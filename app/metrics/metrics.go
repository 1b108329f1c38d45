package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the contact pipeline
type Metrics struct {
	AddRequests             *prometheus.CounterVec
	AttemptTrackingFailures prometheus.Counter
	RecordsCleared          prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AddRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_add_requests_total",
			Help: "Total number of add requests by outcome",
		}, []string{"status"}),
		AttemptTrackingFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contacts_attempt_tracking_failures_total",
			Help: "Total number of attempts that could not be recorded",
		}),
		RecordsCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "contacts_records_cleared_total",
			Help: "Total number of records removed by bulk clear",
		}),
	}
}

func (m *Metrics) IncrementAddRequests(status string) {
	if m == nil {
		return
	}
	m.AddRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementAttemptTrackingFailures() {
	if m == nil {
		return
	}
	m.AttemptTrackingFailures.Inc()
}

func (m *Metrics) AddRecordsCleared(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.RecordsCleared.Add(float64(count))
}

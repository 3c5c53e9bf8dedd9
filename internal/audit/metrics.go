package audit

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	failures     *prometheus.CounterVec //nolint:gochecknoglobals
	failuresOnce sync.Once              //nolint:gochecknoglobals
)

// failureCounter returns the process wide audit_write_failures_total counter.
func failureCounter() *prometheus.CounterVec {
	failuresOnce.Do(func() {
		failures = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_write_failures_total",
				Help: "Number of audit entries that could not be stored.",
			},
			[]string{"entity_type", "action"},
		)
	})

	return failures
}

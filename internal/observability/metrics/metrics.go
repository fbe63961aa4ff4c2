package metrics

import "github.com/prometheus/client_golang/prometheus"

// WizardMetrics exposes counters/histograms for the public booking flow.
type WizardMetrics struct {
	availabilityTotal *prometheus.CounterVec
	availabilityTime  *prometheus.HistogramVec
	staleDiscards     prometheus.Counter
	submissionsTotal  *prometheus.CounterVec
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetslot",
			Subsystem: "wizard",
			Name:      "availability_fetch_total",
			Help:      "Total availability fetches against the backend",
		}, []string{"result", "estimated"}),
		availabilityTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "meetslot",
			Subsystem: "wizard",
			Name:      "availability_fetch_seconds",
			Help:      "Latency of availability fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		staleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meetslot",
			Subsystem: "wizard",
			Name:      "stale_availability_discarded_total",
			Help:      "Availability responses discarded by last-request-wins",
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetslot",
			Subsystem: "wizard",
			Name:      "booking_submissions_total",
			Help:      "Total booking submissions",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.availabilityTime, m.staleDiscards, m.submissionsTotal)
	return m
}

func (m *WizardMetrics) ObserveAvailabilityFetch(result string, estimated bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if estimated {
		label = "true"
	}
	m.availabilityTotal.WithLabelValues(result, label).Inc()
	m.availabilityTime.WithLabelValues(result).Observe(seconds)
}

func (m *WizardMetrics) ObserveStaleDiscard() {
	if m == nil {
		return
	}
	m.staleDiscards.Inc()
}

func (m *WizardMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

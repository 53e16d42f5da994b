package metrics

import "github.com/prometheus/client_golang/prometheus"

// Route optimization outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeApproximate = "approximate"
	OutcomeCacheHit    = "cache_hit"
	OutcomeError       = "error"
)

// RouteMetrics exposes counters/histograms for route planning and agenda writes.
type RouteMetrics struct {
	optimizations     *prometheus.CounterVec
	directionsLatency *prometheus.HistogramVec
	agendaMutations   *prometheus.CounterVec
	locationFixes     *prometheus.CounterVec
}

func NewRouteMetrics(reg prometheus.Registerer) *RouteMetrics {
	m := &RouteMetrics{
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitroute",
			Subsystem: "routes",
			Name:      "optimizations_total",
			Help:      "Route optimization requests by outcome",
		}, []string{"outcome"}),
		directionsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "visitroute",
			Subsystem: "routes",
			Name:      "directions_latency_seconds",
			Help:      "Latency of external directions calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		agendaMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitroute",
			Subsystem: "agenda",
			Name:      "mutations_total",
			Help:      "Next-visit mutations by operation and status",
		}, []string{"operation", "status"}),
		locationFixes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitroute",
			Subsystem: "location",
			Name:      "fixes_total",
			Help:      "Location acquisitions by provider source and outcome",
		}, []string{"source", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.optimizations, m.directionsLatency, m.agendaMutations, m.locationFixes)
	return m
}

func (m *RouteMetrics) ObserveOptimization(outcome string) {
	if m == nil {
		return
	}
	m.optimizations.WithLabelValues(outcome).Inc()
}

func (m *RouteMetrics) ObserveDirectionsLatency(ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.directionsLatency.WithLabelValues(status).Observe(seconds)
}

func (m *RouteMetrics) ObserveAgendaMutation(operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.agendaMutations.WithLabelValues(operation, status).Inc()
}

func (m *RouteMetrics) ObserveLocationFix(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.locationFixes.WithLabelValues(source, outcome).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/gauges for the intake dialogue flow.
type ConversationMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	finalizationsTotal *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hellohealth",
			Subsystem: "conversation",
			Name:      "field_submissions_total",
			Help:      "Field submissions by phase and resulting directive",
		}, []string{"phase", "directive"}),
		finalizationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hellohealth",
			Subsystem: "conversation",
			Name:      "finalizations_total",
			Help:      "Finalization attempts by result",
		}, []string{"result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hellohealth",
			Subsystem: "conversation",
			Name:      "active_sessions",
			Help:      "Sessions opened and not yet closed",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.finalizationsTotal, m.activeSessions)
	return m
}

func (m *ConversationMetrics) ObserveSubmission(phase, directive string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(phase, directive).Inc()
}

func (m *ConversationMetrics) ObserveFinalization(result string) {
	if m == nil {
		return
	}
	m.finalizationsTotal.WithLabelValues(result).Inc()
}

func (m *ConversationMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *ConversationMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

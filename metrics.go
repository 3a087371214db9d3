// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "powersnmp"

// Metrics contains Prometheus collectors for requests, walks and breakers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests           *prometheus.CounterVec
	Retries            prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
	Walks              *prometheus.CounterVec
	WalkVarBinds       prometheus.Counter
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec
	BreakerRejections  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// reg may be nil to keep the collectors unregistered (tests).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "SNMP requests by PDU type and result category",
		}, []string{"pdu", "result"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "request_retries_total",
			Help:      "Request attempts repeated after a recoverable error",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Round trip time of a single request including retries",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"pdu"}),
		Walks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "walks_total",
			Help:      "Completed walks by strategy and result",
		}, []string{"strategy", "result"}),
		WalkVarBinds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "walk_varbinds_total",
			Help:      "Varbinds returned by walks",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "breaker_state",
			Help:      "Circuit breaker state per target (0=closed, 1=open, 2=half-open)",
		}, []string{"key"}),
		BreakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions",
		}, []string{"key", "from", "to"}),
		BreakerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "breaker_rejections_total",
			Help:      "Calls rejected because the circuit was open",
		}, []string{"key"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.Requests, m.Retries, m.RequestDuration, m.Walks, m.WalkVarBinds,
		m.BreakerState, m.BreakerTransitions, m.BreakerRejections,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRequest(pdu PDUType, result string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(pdu.String(), result).Inc()
	m.RequestDuration.WithLabelValues(pdu.String()).Observe(seconds)
}

func (m *Metrics) retry() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

func (m *Metrics) observeWalk(strategy, result string, varbinds int) {
	if m == nil {
		return
	}
	m.Walks.WithLabelValues(strategy, result).Inc()
	m.WalkVarBinds.Add(float64(varbinds))
}

func (m *Metrics) breakerTransition(key string, from, to CircuitState) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(key).Set(float64(to))
	m.BreakerTransitions.WithLabelValues(key, from.String(), to.String()).Inc()
}

func (m *Metrics) breakerRejection(key string) {
	if m == nil {
		return
	}
	m.BreakerRejections.WithLabelValues(key).Inc()
}

func (m *Metrics) forgetBreaker(key string) {
	if m == nil {
		return
	}
	m.BreakerState.DeleteLabelValues(key)
}

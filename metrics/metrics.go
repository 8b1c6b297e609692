package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/branched-services/go-storagedapp"
)

const Namespace = "storage_dapp"

// Connection states tracked by the connection gauge.
var connectionStates = []string{
	storagedapp.StateDisconnected.String(),
	storagedapp.StateConnecting.String(),
	storagedapp.StateConnected.String(),
	storagedapp.StateProviderMissing.String(),
	storagedapp.StateNoAccounts.String(),
	storagedapp.StateFailed.String(),
}

type Metrics struct {
	ns       string
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	connection *prometheus.GaugeVec

	info *prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	return newMetrics(procName, registry)
}

func newMetrics(procName string, registry *prometheus.Registry) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	factory := promauto.With(registry)
	return &Metrics{
		ns:       ns,
		registry: registry,

		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
			"contract",
		}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if the dapp has finished starting up",
		}),

		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "operations_total",
			Help:      "Count of wallet and contract operations",
		}, []string{"op", "result"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "operation_duration_seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			Help:      "Duration of wallet and contract operations",
		}, []string{"op"}),

		connection: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "connection_state",
			Help:      "1 for the current wallet connection state, 0 for all others",
		}, []string{"state"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordInfo sets a pseudo-metric that contains versioning and config info.
func (m *Metrics) RecordInfo(version string, contract string) {
	m.info.WithLabelValues(version, contract).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordConnection(state string) {
	for _, s := range connectionStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.connection.WithLabelValues(s).Set(v)
	}
}

func (m *Metrics) RecordOperation(op string) (onDone func(err error)) {
	timer := prometheus.NewTimer(m.duration.WithLabelValues(op))
	return func(err error) {
		timer.ObserveDuration()
		result := "success"
		if err != nil {
			result = "failed"
		}
		m.operations.WithLabelValues(op, result).Inc()
	}
}

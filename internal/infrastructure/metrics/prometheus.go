// Package metrics publica las métricas del motor de facturación en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implementa billing.MetricsRecorder sobre un registro propio.
type Prometheus struct {
	registry       *prometheus.Registry
	recomputations *prometheus.CounterVec
	draftsActive   prometheus.Gauge
}

// NewPrometheus registra los colectores. namespace vacío usa "billing".
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "billing"
	}
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Recálculos completos de totales, por disparador.",
		}, []string{"trigger"}),
		draftsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drafts_active",
			Help:      "Borradores de factura en memoria.",
		}),
	}
	p.registry.MustRegister(
		p.recomputations,
		p.draftsActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// RecomputeObserved incrementa el contador del disparador.
func (p *Prometheus) RecomputeObserved(trigger string) {
	p.recomputations.WithLabelValues(trigger).Inc()
}

// DraftsActive fija el gauge de borradores.
func (p *Prometheus) DraftsActive(n int) {
	p.draftsActive.Set(float64(n))
}

// Handler expone el registro; se monta en Fiber con adaptor.HTTPHandler.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry devuelve el registro subyacente.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

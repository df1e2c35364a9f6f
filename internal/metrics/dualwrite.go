package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dual-write Prometheus metrics. They live in a standalone package to
// avoid import cycles between the coordinator and HTTP packages.

var (
	DualWriteLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dualwrite_latency_ms",
		Help:    "Latencia total de una doble escritura en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"kind", "op"})

	DualWritePartial = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dualwrite_partial_total",
		Help: "Escrituras confirmadas en SQL cuyo espejo documental falló",
	}, []string{"kind", "op"})

	DualWriteRepairs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dualwrite_repairs_total",
		Help: "Reparaciones de espejo ejecutadas, por resultado",
	}, []string{"kind", "result"})

	DualWriteIDRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dualwrite_id_retries_total",
		Help: "Reintentos de generación de external id por colisión",
	})
)

// RegisterDualWrite registra las métricas en el registry dado
// (default si es nil). Tolera doble registro.
func RegisterDualWrite(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		DualWriteLatency,
		DualWritePartial,
		DualWriteRepairs,
		DualWriteIDRetries,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

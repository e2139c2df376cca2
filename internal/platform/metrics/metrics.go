package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics del pipeline de generación. Se registran contra el Registerer
// que reciba New, así cada router/test arma el suyo sin chocar con el
// registry global.
type Metrics struct {
	GenerationsStarted prometheus.Counter
	GenerationFailures *prometheus.CounterVec
	PortraitsSaved     prometheus.Counter
	DuplicatesRejected prometheus.Counter
	GenerationDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		GenerationsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "soulportrait_generations_started_total",
			Help: "Total de generaciones iniciadas",
		}),
		GenerationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soulportrait_generation_failures_total",
			Help: "Fallos de generación por kind clasificado",
		}, []string{"kind"}),
		PortraitsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "soulportrait_portraits_saved_total",
			Help: "Retratos persistidos",
		}),
		DuplicatesRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "soulportrait_duplicates_rejected_total",
			Help: "Inserts rechazados por identidad duplicada",
		}),
		GenerationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "soulportrait_generation_duration_seconds",
			Help:    "Duración end-to-end de una generación exitosa",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
	}
}

// Todos los métodos toleran receiver nil: el facade puede correr sin
// métricas (tests unitarios).

func (m *Metrics) IncStarted() {
	if m == nil {
		return
	}
	m.GenerationsStarted.Inc()
}

func (m *Metrics) IncFailure(kind string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.PortraitsSaved.Inc()
}

func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

func (m *Metrics) ObserveGeneration(start time.Time) {
	if m == nil {
		return
	}
	m.GenerationDuration.Observe(time.Since(start).Seconds())
}

package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts lifecycle outcomes.  A nil *Metrics records nothing.
type Metrics struct {
	ops        *prometheus.CounterVec
	rejections *prometheus.CounterVec
	sweeps     prometheus.Counter
}

// NewMetrics registers the lifecycle collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "operations_total",
			Help:      "Successful lifecycle operations by kind.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "rejections_total",
			Help:      "Rejected lifecycle operations by reason.",
		}, []string{"reason"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "slots_swept_total",
			Help:      "Slots archived by the expiry sweep.",
		}),
	}
	reg.MustRegister(m.ops, m.rejections, m.sweeps)
	return m
}

func (m *Metrics) op(name string) {
	if m != nil {
		m.ops.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) reject(reason string) {
	if m != nil {
		m.rejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) swept(n int) {
	if m != nil {
		m.sweeps.Add(float64(n))
	}
}

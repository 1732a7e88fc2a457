package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle events.
type OrderMetrics struct {
	transitions   *prometheus.CounterVec
	manualCreated prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Applied order status transitions.",
	}, []string{"from", "to"})
	manualCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manual_orders_created_total",
		Help: "Orders entered manually from the admin console.",
	})
	reg.MustRegister(transitions, manualCreated)
	return &OrderMetrics{
		transitions:   transitions,
		manualCreated: manualCreated,
	}
}

func (o *OrderMetrics) IncTransition(from, to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (o *OrderMetrics) IncManualOrder() {
	if o == nil || o.manualCreated == nil {
		return
	}
	o.manualCreated.Inc()
}

// Package metrics holds the prometheus collectors for route network operations.
package metrics

import (
	"errors"

	"github.com/meikuraledutech/routenet"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters exposed by the server.
type Metrics struct {
	Validations *prometheus.CounterVec
	StoreOps    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routenet",
			Name:      "validation_total",
			Help:      "Route segment validations by outcome.",
		}, []string{"reason"}),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routenet",
			Name:      "store_operations_total",
			Help:      "Store operations by operation and result.",
		}, []string{"op", "result"}),
	}
	for _, c := range []prometheus.Collector{m.Validations, m.StoreOps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveValidation counts one validation outcome.
func (m *Metrics) ObserveValidation(r routenet.Result) {
	m.Validations.WithLabelValues(r.Reason.String()).Inc()
}

// ObserveStore counts one store call under the result class of err.
func (m *Metrics) ObserveStore(op string, err error) {
	m.StoreOps.WithLabelValues(op, ResultLabel(err)).Inc()
}

// ResultLabel maps a store error onto a low-cardinality label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, routenet.ErrValidation):
		return "rejected"
	case errors.Is(err, routenet.ErrConstraintViolation):
		return "conflict"
	case errors.Is(err, routenet.ErrSchemaState):
		return "schema"
	case errors.Is(err, routenet.ErrConnection):
		return "connection"
	default:
		return "error"
	}
}

package feed

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчики оптимистичных мутаций.
// Методы безопасны для nil-получателя.
type Metrics struct {
	mutations  *prometheus.CounterVec
	reconciles prometheus.Counter
}

// NewMetrics регистрирует счётчики в reg:
//   - burrow_feed_mutations_total{op,result} — результат фонового запроса мутации
//     (result: ok | failed | canceled);
//   - burrow_feed_reconciles_total — перезагрузки списка после неудачной мутации.
//
// Повторный вызов с тем же reg переиспользует уже зарегистрированные коллекторы.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "feed",
			Name:      "mutations_total",
			Help:      "Optimistic mutation requests by operation and result.",
		}, []string{"op", "result"}),
		reconciles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "feed",
			Name:      "reconciles_total",
			Help:      "Full comment list re-fetches after failed mutations.",
		}),
	}

	if reg == nil {
		return m
	}

	m.mutations = register(reg, m.mutations)
	m.reconciles = register(reg, m.reconciles)

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}

	return c
}

func (m *Metrics) mutation(op, result string) {
	if m == nil {
		return
	}

	m.mutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) reconcile() {
	if m == nil {
		return
	}

	m.reconciles.Inc()
}

package metric

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every metric exported by menushell.
const Namespace = "menushell"

// MenuMetrics records menu tree activity. It satisfies menu.Observer.
type MenuMetrics struct {
	mutations IncrementalCounter
	renders   IncrementalCounter
	entries   prometheus.Gauge
}

// NewMenuMetrics registers the menu metrics with reg.
func NewMenuMetrics(reg prometheus.Registerer) *MenuMetrics {
	entries := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "menu_entries",
		Help:      "Number of entries in the last rendered menu tree.",
	})
	reg.MustRegister(entries)

	return &MenuMetrics{
		mutations: NewCounterWithRegistry(reg, "menu_mutations_total", "Menu tree mutations by operation.", "op"),
		renders:   NewCounterWithRegistry(reg, "menu_renders_total", "Host menu rebuilds."),
		entries:   entries,
	}
}

func (m *MenuMetrics) Mutation(op string) {
	m.mutations.Increment(op)
}

func (m *MenuMetrics) Rendered(entries int) {
	m.renders.Increment()
	m.entries.Set(float64(entries))
}

package roadgraph

// Mode is a named routing mode: a road-class preference factor in
// [0, 1] that modulates edge cost without copying the graph. The empty
// name selects the server default (factor 0, i.e. exact raw-cost
// routing).
type Mode struct {
	Name             string
	PreferenceFactor float64
}

// Exact is the zero-value / default mode: raw cost only.
var Exact = Mode{Name: "", PreferenceFactor: 0}

// Cost returns the effective cost of e under this mode.
func (m Mode) Cost(e Edge) float64 {
	return EffectiveCost(e, m.PreferenceFactor)
}

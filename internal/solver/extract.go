package solver

import (
	"errors"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
)

// ErrNoAssignment is returned when extraction is attempted on a result
// that carries no variable assignment
var ErrNoAssignment = errors.New("engine result carries no assignment")

// selectionThreshold rounds a near-binary relaxation value to its intended
// boolean meaning. Integer-feasible assignments sit at 0 or 1 already; the
// threshold only guards against floating-point noise.
const selectionThreshold = 0.5

// Extract maps an engine assignment back to the selected order and aisle
// index sets. Pure function of its inputs.
func Extract(m *Model, r *Result) (domain.WaveSolution, error) {
	if r == nil || !r.Status.HasAssignment() || len(r.Values) != len(m.Variables) {
		return domain.WaveSolution{}, ErrNoAssignment
	}

	var s domain.WaveSolution
	for i, v := range m.OrderVars {
		if r.Values[v] > selectionThreshold {
			s.Orders = append(s.Orders, i)
		}
	}
	for j, v := range m.AisleVars {
		if r.Values[v] > selectionThreshold {
			s.Aisles = append(s.Aisles, j)
		}
	}

	return s, nil
}

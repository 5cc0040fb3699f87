// Package solver builds the wave-selection optimization model and defines
// the engine contract used to solve it.
package solver

// VarKind distinguishes binary selection variables from bounded integers
type VarKind int

const (
	Binary VarKind = iota
	Integer
)

// Sense is the comparison direction of a linear constraint
type Sense int

const (
	LessOrEqual Sense = iota
	Equal
)

// Variable is one decision variable of the model
type Variable struct {
	Name  string
	Kind  VarKind
	Lower int64
	Upper int64
}

// Term is one coefficient-variable pair of a linear expression
type Term struct {
	Var  int
	Coef int64
}

// Constraint is a linear constraint: Σ Coef·Var  (Sense)  RHS
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   int64
}

// Model is an engine-neutral mixed-integer program. It is self-contained:
// no state is shared with the instance it was built from, so concurrent
// solves of independent models need no coordination.
type Model struct {
	Variables   []Variable
	Constraints []Constraint

	// Objective is maximized.
	Objective []Term

	// Variable index bookkeeping for solution extraction.
	OrderVars []int
	AisleVars []int
	UnitsVar  int
	AislesVar int
	ScoreVar  int
}

// NumVariables returns the number of decision variables
func (m *Model) NumVariables() int {
	return len(m.Variables)
}

func (m *Model) addVariable(v Variable) int {
	m.Variables = append(m.Variables, v)
	return len(m.Variables) - 1
}

func (m *Model) addConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

package core

import "slices"

// Evaluation is the output of the user evaluator for one individual: a
// value for every declared objective and constraint, keyed by name.
// Objective values use the user's sign convention; the engine applies the
// maximisation flip when storing them.
type Evaluation struct {
	Objectives  map[string]float64
	Constraints map[string]float64
}

// Evaluator computes the objectives and constraints of a candidate
// solution. The engine holds the evaluator by shared reference; when
// parallel evaluation is enabled it is invoked concurrently and must be
// safe to call from multiple goroutines.
type Evaluator interface {
	Evaluate(ind *Individual) (*Evaluation, error)
}

// Problem is the immutable definition of an optimisation problem: ordered
// objectives, ordered decision variables, optional ordered constraints and
// the user evaluator.
type Problem struct {
	objectives  []Objective
	variables   []Variable
	constraints []Constraint
	evaluator   Evaluator

	objectiveIndex  map[string]int
	variableIndex   map[string]int
	constraintIndex map[string]int
}

// NewProblem builds a problem definition. It rejects an empty objective
// list, a missing evaluator and duplicate names within each kind.
func NewProblem(objectives []Objective, variables []Variable, constraints []Constraint, evaluator Evaluator) (*Problem, error) {
	if len(objectives) == 0 {
		return nil, &ValidationError{Field: "objectives", Reason: "at least one objective is required"}
	}
	if len(variables) == 0 {
		return nil, &ValidationError{Field: "variables", Reason: "at least one variable is required"}
	}
	if evaluator == nil {
		return nil, &ValidationError{Field: "evaluator", Reason: "cannot be nil"}
	}

	p := &Problem{
		objectives:      objectives,
		variables:       variables,
		constraints:     constraints,
		evaluator:       evaluator,
		objectiveIndex:  make(map[string]int, len(objectives)),
		variableIndex:   make(map[string]int, len(variables)),
		constraintIndex: make(map[string]int, len(constraints)),
	}
	for i, o := range objectives {
		if _, dup := p.objectiveIndex[o.Name()]; dup {
			return nil, &ValidationError{Field: "objectives", Reason: "duplicated name " + o.Name()}
		}
		p.objectiveIndex[o.Name()] = i
	}
	for i, v := range variables {
		if _, dup := p.variableIndex[v.Name()]; dup {
			return nil, &ValidationError{Field: "variables", Reason: "duplicated name " + v.Name()}
		}
		p.variableIndex[v.Name()] = i
	}
	for i, c := range constraints {
		if _, dup := p.constraintIndex[c.Name()]; dup {
			return nil, &ValidationError{Field: "constraints", Reason: "duplicated name " + c.Name()}
		}
		p.constraintIndex[c.Name()] = i
	}
	return p, nil
}

// NumberOfObjectives returns the objective count.
func (p *Problem) NumberOfObjectives() int { return len(p.objectives) }

// NumberOfVariables returns the variable count.
func (p *Problem) NumberOfVariables() int { return len(p.variables) }

// NumberOfConstraints returns the constraint count.
func (p *Problem) NumberOfConstraints() int { return len(p.constraints) }

// Objectives returns the ordered objectives.
func (p *Problem) Objectives() []Objective { return p.objectives }

// ObjectiveNames returns the objective names in declaration order.
func (p *Problem) ObjectiveNames() []string {
	names := make([]string, len(p.objectives))
	for i, o := range p.objectives {
		names[i] = o.Name()
	}
	return names
}

// Objective looks an objective up by name.
func (p *Problem) Objective(name string) (Objective, error) {
	i, ok := p.objectiveIndex[name]
	if !ok {
		return Objective{}, &NotFoundError{Kind: "objective", Name: name}
	}
	return p.objectives[i], nil
}

// IsObjectiveMinimised reports whether the named objective is minimised.
func (p *Problem) IsObjectiveMinimised(name string) (bool, error) {
	o, err := p.Objective(name)
	if err != nil {
		return false, err
	}
	return o.Direction() == Minimise, nil
}

// Variables returns the ordered variable declarations.
func (p *Problem) Variables() []Variable { return p.variables }

// VariableNames returns the variable names in declaration order.
func (p *Problem) VariableNames() []string {
	names := make([]string, len(p.variables))
	for i, v := range p.variables {
		names[i] = v.Name()
	}
	return names
}

// Variable looks a variable declaration up by name.
func (p *Problem) Variable(name string) (Variable, error) {
	i, ok := p.variableIndex[name]
	if !ok {
		return nil, &NotFoundError{Kind: "variable", Name: name}
	}
	return p.variables[i], nil
}

// Constraints returns the ordered constraints.
func (p *Problem) Constraints() []Constraint { return p.constraints }

// ConstraintNames returns the constraint names in declaration order.
func (p *Problem) ConstraintNames() []string {
	names := make([]string, len(p.constraints))
	for i, c := range p.constraints {
		names[i] = c.Name()
	}
	return names
}

// Constraint looks a constraint up by name.
func (p *Problem) Constraint(name string) (Constraint, error) {
	i, ok := p.constraintIndex[name]
	if !ok {
		return Constraint{}, &NotFoundError{Kind: "constraint", Name: name}
	}
	return p.constraints[i], nil
}

// Evaluator returns the user evaluator.
func (p *Problem) Evaluator() Evaluator { return p.evaluator }

// ProblemExport is the serialised form of a problem definition, without
// the evaluator.
type ProblemExport struct {
	Objectives          []Objective      `json:"objectives"`
	Constraints         []Constraint     `json:"constraints"`
	Variables           []VariableExport `json:"variables"`
	ObjectiveNames      []string         `json:"objective_names"`
	ConstraintNames     []string         `json:"constraint_names"`
	VariableNames       []string         `json:"variable_names"`
	NumberOfObjectives  int              `json:"number_of_objectives"`
	NumberOfConstraints int              `json:"number_of_constraints"`
	NumberOfVariables   int              `json:"number_of_variables"`
}

// Export converts the problem definition to its serialised form.
func (p *Problem) Export() ProblemExport {
	vars := make([]VariableExport, len(p.variables))
	for i, v := range p.variables {
		vars[i] = ExportVariable(v)
	}
	constraints := p.constraints
	if constraints == nil {
		constraints = []Constraint{}
	}
	return ProblemExport{
		Objectives:          p.objectives,
		Constraints:         constraints,
		Variables:           vars,
		ObjectiveNames:      p.ObjectiveNames(),
		ConstraintNames:     p.ConstraintNames(),
		VariableNames:       p.VariableNames(),
		NumberOfObjectives:  len(p.objectives),
		NumberOfConstraints: len(p.constraints),
		NumberOfVariables:   len(p.variables),
	}
}

// CheckCompatibility verifies that a serialised problem matches this
// definition exactly: same names in the same order, same directions, same
// operators and targets, and same variable domains. Used before resuming
// from a snapshot.
func (p *Problem) CheckCompatibility(e *ProblemExport) error {
	if len(e.Objectives) != len(p.objectives) {
		return &ValidationError{Field: "objectives", Reason: "count mismatch with the snapshot"}
	}
	for i, o := range p.objectives {
		if e.Objectives[i].Name() != o.Name() || e.Objectives[i].Direction() != o.Direction() {
			return &ValidationError{Field: "objectives", Reason: "objective " + o.Name() + " does not match the snapshot"}
		}
	}
	if len(e.Constraints) != len(p.constraints) {
		return &ValidationError{Field: "constraints", Reason: "count mismatch with the snapshot"}
	}
	for i, c := range p.constraints {
		sc := e.Constraints[i]
		if sc.Name() != c.Name() || sc.Operator() != c.Operator() || sc.Target() != c.Target() {
			return &ValidationError{Field: "constraints", Reason: "constraint " + c.Name() + " does not match the snapshot"}
		}
	}
	if len(e.Variables) != len(p.variables) {
		return &ValidationError{Field: "variables", Reason: "count mismatch with the snapshot"}
	}
	for i, v := range p.variables {
		if !sameVariable(ExportVariable(v), e.Variables[i]) {
			return &ValidationError{Field: "variables", Reason: "variable " + v.Name() + " does not match the snapshot"}
		}
	}
	return nil
}

// sameVariable reports whether two serialised variable declarations have
// the same name, kind and domain.
func sameVariable(a, b VariableExport) bool {
	if a.Name != b.Name || a.Kind != b.Kind {
		return false
	}
	if (a.Lower == nil) != (b.Lower == nil) || (a.Upper == nil) != (b.Upper == nil) {
		return false
	}
	if a.Lower != nil && *a.Lower != *b.Lower {
		return false
	}
	if a.Upper != nil && *a.Upper != *b.Upper {
		return false
	}
	return slices.Equal(a.Choices, b.Choices)
}

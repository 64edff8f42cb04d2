package core

import (
	"fmt"
	"math"
	"slices"
)

// Variable describes a decision variable: its name, its domain and how to
// draw a uniform sample from it.
type Variable interface {
	// Name returns the variable name.
	Name() string
	// Sample draws a uniform random value from the variable domain.
	Sample(rng *Rand) any
	// Validate checks that the value has the right type and lies in the
	// variable domain.
	Validate(value any) error
}

// RealVariable is a real number bounded to a closed interval.
type RealVariable struct {
	name  string
	lower float64
	upper float64
}

// NewRealVariable creates a bounded real variable. Both bounds must be
// finite and lower must not exceed upper.
func NewRealVariable(name string, lower, upper float64) (*RealVariable, error) {
	if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) {
		return nil, &ValidationError{Field: name, Reason: "bounds must be finite"}
	}
	if lower > upper {
		return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("lower bound %g exceeds upper bound %g", lower, upper)}
	}
	return &RealVariable{name: name, lower: lower, upper: upper}, nil
}

// Name returns the variable name.
func (v *RealVariable) Name() string { return v.name }

// Bounds returns the lower and upper bound.
func (v *RealVariable) Bounds() (float64, float64) { return v.lower, v.upper }

// Sample draws a uniform value in [lower, upper].
func (v *RealVariable) Sample(rng *Rand) any {
	return v.lower + rng.Float64()*(v.upper-v.lower)
}

// Validate checks the value is a float64 within bounds.
func (v *RealVariable) Validate(value any) error {
	f, ok := value.(float64)
	if !ok {
		return &TypeMismatchError{Variable: v.name, Want: "real", Got: value}
	}
	if f < v.lower || f > v.upper {
		return &ValidationError{Field: v.name, Reason: fmt.Sprintf("value %g is outside [%g, %g]", f, v.lower, v.upper)}
	}
	return nil
}

// IntegerVariable is an integer bounded to a closed interval.
type IntegerVariable struct {
	name  string
	lower int64
	upper int64
}

// NewIntegerVariable creates a bounded integer variable.
func NewIntegerVariable(name string, lower, upper int64) (*IntegerVariable, error) {
	if lower > upper {
		return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("lower bound %d exceeds upper bound %d", lower, upper)}
	}
	return &IntegerVariable{name: name, lower: lower, upper: upper}, nil
}

// Name returns the variable name.
func (v *IntegerVariable) Name() string { return v.name }

// Bounds returns the lower and upper bound.
func (v *IntegerVariable) Bounds() (int64, int64) { return v.lower, v.upper }

// Sample draws a uniform value in {lower, ..., upper}.
func (v *IntegerVariable) Sample(rng *Rand) any {
	return v.lower + rng.Int64N(v.upper-v.lower+1)
}

// Validate checks the value is an int64 within bounds.
func (v *IntegerVariable) Validate(value any) error {
	i, ok := value.(int64)
	if !ok {
		return &TypeMismatchError{Variable: v.name, Want: "integer", Got: value}
	}
	if i < v.lower || i > v.upper {
		return &ValidationError{Field: v.name, Reason: fmt.Sprintf("value %d is outside [%d, %d]", i, v.lower, v.upper)}
	}
	return nil
}

// BooleanVariable is a true/false decision.
type BooleanVariable struct {
	name string
}

// NewBooleanVariable creates a boolean variable.
func NewBooleanVariable(name string) *BooleanVariable {
	return &BooleanVariable{name: name}
}

// Name returns the variable name.
func (v *BooleanVariable) Name() string { return v.name }

// Sample draws true or false with equal probability.
func (v *BooleanVariable) Sample(rng *Rand) any {
	return rng.Float64() < 0.5
}

// Validate checks the value is a bool.
func (v *BooleanVariable) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return &TypeMismatchError{Variable: v.name, Want: "boolean", Got: value}
	}
	return nil
}

// ChoiceVariable selects one label from a finite ordered list.
type ChoiceVariable struct {
	name    string
	choices []string
}

// NewChoiceVariable creates a choice variable. At least one label is
// required and labels must be unique.
func NewChoiceVariable(name string, choices []string) (*ChoiceVariable, error) {
	if len(choices) == 0 {
		return nil, &ValidationError{Field: name, Reason: "at least one choice is required"}
	}
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		if seen[c] {
			return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("duplicated choice %q", c)}
		}
		seen[c] = true
	}
	return &ChoiceVariable{name: name, choices: slices.Clone(choices)}, nil
}

// Name returns the variable name.
func (v *ChoiceVariable) Name() string { return v.name }

// Choices returns the ordered labels.
func (v *ChoiceVariable) Choices() []string { return slices.Clone(v.choices) }

// Sample draws a label uniformly.
func (v *ChoiceVariable) Sample(rng *Rand) any {
	return v.choices[rng.IntN(len(v.choices))]
}

// Validate checks the value is one of the declared labels.
func (v *ChoiceVariable) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return &TypeMismatchError{Variable: v.name, Want: "choice", Got: value}
	}
	if !slices.Contains(v.choices, s) {
		return &ValidationError{Field: v.name, Reason: fmt.Sprintf("value %q is not a declared choice", s)}
	}
	return nil
}

// VariableExport is the serialised form of a variable declaration.
type VariableExport struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Lower   *float64 `json:"lower,omitempty"`
	Upper   *float64 `json:"upper,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

// ExportVariable converts a variable declaration to its serialised form.
func ExportVariable(v Variable) VariableExport {
	switch t := v.(type) {
	case *RealVariable:
		lo, up := t.Bounds()
		return VariableExport{Name: t.name, Kind: "real", Lower: &lo, Upper: &up}
	case *IntegerVariable:
		lo, up := float64(t.lower), float64(t.upper)
		return VariableExport{Name: t.name, Kind: "integer", Lower: &lo, Upper: &up}
	case *BooleanVariable:
		return VariableExport{Name: t.name, Kind: "boolean"}
	case *ChoiceVariable:
		return VariableExport{Name: t.name, Kind: "choice", Choices: t.Choices()}
	default:
		return VariableExport{Name: v.Name(), Kind: "unknown"}
	}
}

// ImportVariable rebuilds a variable declaration from its serialised form.
func ImportVariable(e VariableExport) (Variable, error) {
	switch e.Kind {
	case "real":
		if e.Lower == nil || e.Upper == nil {
			return nil, &ValidationError{Field: e.Name, Reason: "real variable requires bounds"}
		}
		return NewRealVariable(e.Name, *e.Lower, *e.Upper)
	case "integer":
		if e.Lower == nil || e.Upper == nil {
			return nil, &ValidationError{Field: e.Name, Reason: "integer variable requires bounds"}
		}
		return NewIntegerVariable(e.Name, int64(*e.Lower), int64(*e.Upper))
	case "boolean":
		return NewBooleanVariable(e.Name), nil
	case "choice":
		return NewChoiceVariable(e.Name, e.Choices)
	default:
		return nil, fmt.Errorf("unknown variable kind %q", e.Kind)
	}
}

// coerceValue converts a JSON-decoded value back to the native type the
// variable declaration expects. JSON has no integer type, so integer
// variables come back as float64 and must be converted.
func coerceValue(v Variable, value any) (any, error) {
	if _, ok := v.(*IntegerVariable); ok {
		if f, isFloat := value.(float64); isFloat {
			value = int64(f)
		}
	}
	if err := v.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

package appointment

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"
)

// operatorExprs maps each operator to a CEL expression over the candidate
// value and the constraint's target value.
var operatorExprs = map[Operator]string{
	OpEq:       `candidate == target`,
	OpNeq:      `candidate != target`,
	OpIn:       `candidate in target`,
	OpNotIn:    `!(candidate in target)`,
	OpContains: `type(candidate) == list ? target in candidate : string(candidate).contains(string(target))`,
	OpBefore:   `timestamp(candidate) < timestamp(target)`,
	OpAfter:    `timestamp(candidate) > timestamp(target)`,
}

// ConstraintChecker evaluates constraints against candidate values. It is
// safe for concurrent use.
type ConstraintChecker struct {
	programs map[Operator]cel.Program
}

// NewConstraintChecker compiles the operator expressions.
func NewConstraintChecker() (*ConstraintChecker, error) {
	env, err := cel.NewEnv(
		cel.Variable("candidate", cel.DynType),
		cel.Variable("target", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	programs := make(map[Operator]cel.Program, len(operatorExprs))
	for op, expr := range operatorExprs {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", op, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to build program for %s: %w", op, err)
		}
		programs[op] = prg
	}
	return &ConstraintChecker{programs: programs}, nil
}

// Supports reports whether op is a known operator. The empty operator
// means eq.
func (cc *ConstraintChecker) Supports(op Operator) bool {
	if op == "" {
		return true
	}
	_, ok := cc.programs[op]
	return ok
}

// Satisfies reports whether candidate meets c. Values the operator cannot
// compare (for example a non-timestamp with "before") do not satisfy it.
func (cc *ConstraintChecker) Satisfies(c Constraint, candidate any) (bool, error) {
	op := c.Operator
	if op == "" {
		op = OpEq
	}
	prg, ok := cc.programs[op]
	if !ok {
		return false, fmt.Errorf("unsupported operator %q", op)
	}
	out, _, err := prg.Eval(map[string]any{
		"candidate": candidate,
		"target":    c.Value,
	})
	if err != nil {
		return false, nil
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// RankedSuggestion is an active suggestion with the constraints it meets.
type RankedSuggestion struct {
	Suggestion
	Satisfied int `json:"satisfied"`
	Total     int `json:"total"`
}

// RankSuggestions orders the active suggestions for field by how many of
// the field's constraints they satisfy. Ties keep insertion order.
func RankSuggestions(appt Appointment, field string, cc *ConstraintChecker) ([]RankedSuggestion, error) {
	var constraints []Constraint
	for _, c := range appt.Constraints {
		if c.Field == field {
			constraints = append(constraints, c)
		}
	}

	active := ActiveSuggestionsByField(appt, field)
	ranked := make([]RankedSuggestion, 0, len(active))
	for _, s := range active {
		rs := RankedSuggestion{Suggestion: s, Total: len(constraints)}
		for _, c := range constraints {
			ok, err := cc.Satisfies(c, s.Value)
			if err != nil {
				return nil, err
			}
			if ok {
				rs.Satisfied++
			}
		}
		ranked = append(ranked, rs)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Satisfied > ranked[j].Satisfied
	})
	return ranked, nil
}

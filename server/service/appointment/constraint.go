package appointment

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lithammer/shortuuid/v4"
)

// Operator is the comparison a constraint applies to a field value.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpIn       Operator = "in"
	OpNotIn    Operator = "not_in"
	OpContains Operator = "contains"
	OpBefore   Operator = "before"
	OpAfter    Operator = "after"
)

// Constraint is a member's binding requirement on a field.
type Constraint struct {
	ID          string   `json:"id"`
	MemberEmail string   `json:"memberEmail"`
	Field       string   `json:"field"`
	Operator    Operator `json:"operator"`
	Value       any      `json:"value"`
}

// ConstraintInput is the member-supplied part of a constraint. ConstraintID
// selects an existing constraint to edit.
type ConstraintInput struct {
	ConstraintID string
	Field        string
	Operator     Operator
	Value        any
}

// UpsertConstraintForMember edits or adds a constraint owned by memberEmail.
//
// A constraint is edited in place when ConstraintID names one of the
// member's constraints, or, failing that, when the member already has a
// constraint on the same field. Otherwise a new constraint is appended and
// added is true. A ConstraintID owned by another member is never edited; the
// appointment is returned unchanged.
func UpsertConstraintForMember(appt Appointment, memberEmail string, in ConstraintInput) (Appointment, bool) {
	op := in.Operator
	if op == "" {
		op = OpEq
	}

	idx := -1
	if in.ConstraintID != "" {
		idx = slices.IndexFunc(appt.Constraints, func(c Constraint) bool { return c.ID == in.ConstraintID })
		if idx >= 0 && appt.Constraints[idx].MemberEmail != memberEmail {
			return appt, false
		}
	}
	if idx < 0 {
		idx = slices.IndexFunc(appt.Constraints, func(c Constraint) bool {
			return c.MemberEmail == memberEmail && c.Field == in.Field
		})
	}

	out := EnsureAppointmentDoc(appt, memberEmail)
	if idx >= 0 {
		out.Constraints[idx].Operator = op
		out.Constraints[idx].Value = in.Value
		return out, false
	}

	id := in.ConstraintID
	if id == "" {
		id = "c_" + shortuuid.New()
	}
	out.Constraints = append(out.Constraints, Constraint{
		ID:          id,
		MemberEmail: memberEmail,
		Field:       in.Field,
		Operator:    op,
		Value:       in.Value,
	})
	return out, true
}

// RemoveConstraintForMember removes the constraint with constraintID if it
// is owned by memberEmail.
func RemoveConstraintForMember(appt Appointment, memberEmail, constraintID string) (Appointment, bool) {
	idx := slices.IndexFunc(appt.Constraints, func(c Constraint) bool {
		return c.ID == constraintID && c.MemberEmail == memberEmail
	})
	if idx < 0 {
		return appt, false
	}
	out := appt.clone()
	out.Constraints = slices.Delete(out.Constraints, idx, idx+1)
	return out, true
}

// ReconciliationStatus tells whether all constraints agree.
type ReconciliationStatus string

const (
	Reconciled   ReconciliationStatus = "reconciled"
	Unreconciled ReconciliationStatus = "unreconciled"
)

// Reconciliation is the result of EvaluateReconciliation.
type Reconciliation struct {
	Status      ReconciliationStatus `json:"status"`
	Reasons     []string             `json:"reasons"`
	EvaluatedBy string               `json:"evaluatedBy,omitempty"`
}

// EvaluateReconciliation reports whether every constrained field has all
// its constraints agreeing on the same value. An appointment without
// constraints is reconciled. Reasons name each disagreeing field, sorted by
// field name. It does not modify appt.
func EvaluateReconciliation(appt Appointment, actorEmail string) Reconciliation {
	byField := map[string][]Constraint{}
	for _, c := range appt.Constraints {
		byField[c.Field] = append(byField[c.Field], c)
	}

	fields := make([]string, 0, len(byField))
	for f := range byField {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	res := Reconciliation{Status: Reconciled, Reasons: []string{}, EvaluatedBy: actorEmail}
	for _, f := range fields {
		cs := byField[f]
		var distinct []any
		for _, c := range cs {
			if !slices.ContainsFunc(distinct, func(v any) bool { return valuesEqual(v, c.Value) }) {
				distinct = append(distinct, c.Value)
			}
		}
		if len(distinct) > 1 {
			res.Status = Unreconciled
			res.Reasons = append(res.Reasons,
				fmt.Sprintf("%s: %d constraints disagree across %d values", f, len(cs), len(distinct)))
		}
	}
	return res
}

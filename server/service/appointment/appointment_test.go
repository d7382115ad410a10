package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
)

func TestEnsureAppointmentDoc(t *testing.T) {
	raw := Appointment{
		ID:    "a1",
		Title: "Dinner",
		Constraints: []Constraint{
			{ID: "c1", MemberEmail: alice, Field: FieldTitle, Operator: OpEq, Value: "Dinner"},
		},
	}

	doc := EnsureAppointmentDoc(raw, bob)
	require.NotNil(t, doc.Suggestions.ByField)
	assert.Len(t, doc.Constraints, 1, "existing constraints are kept")
	assert.Equal(t, bob, doc.CreatedBy)
	assert.Equal(t, StatusProposed, doc.Status)
	assert.Nil(t, raw.Suggestions.ByField, "input is not modified")

	again := EnsureAppointmentDoc(doc, alice)
	assert.Equal(t, doc, again)
}

func TestDecodeAppointment(t *testing.T) {
	doc, err := DecodeAppointment([]byte(`{"id":"a1","title":"Picnic","suggestions":{"byField":{"title":[{"id":"s1","field":"title","value":"BBQ","active":true}]}}}`), alice)
	require.NoError(t, err)
	assert.Equal(t, "Picnic", doc.Title)
	assert.NotNil(t, doc.Constraints)
	assert.Len(t, ActiveSuggestionsByField(doc, FieldTitle), 1)

	empty, err := DecodeAppointment(nil, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, empty.CreatedBy)

	_, err = DecodeAppointment([]byte(`{`), alice)
	assert.Error(t, err)
}

func TestSuggestions(t *testing.T) {
	doc := EnsureAppointmentDoc(Appointment{ID: "a1"}, alice)

	s1 := NewSuggestion(SuggestionInput{ProposerEmail: alice, Field: FieldTitle, Value: "Dinner"})
	s2 := NewSuggestion(SuggestionInput{ProposerEmail: alice, Field: FieldTitle, Value: "Brunch"})
	s3 := NewSuggestion(SuggestionInput{ProposerEmail: bob, Field: FieldLocation, Value: "Park"})
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.True(t, s1.Active)

	doc = AddSuggestion(doc, s1)
	withTwo := AddSuggestion(doc, s2)
	withThree := AddSuggestion(withTwo, s3)

	assert.Len(t, ActiveSuggestionsByField(doc, FieldTitle), 1, "earlier value is untouched")
	titles := ActiveSuggestionsByField(withThree, FieldTitle)
	require.Len(t, titles, 2, "same proposer keeps both suggestions")
	assert.Equal(t, "Dinner", titles[0].Value)
	assert.Equal(t, "Brunch", titles[1].Value)
	assert.Len(t, ActiveSuggestionsByField(withThree, FieldLocation), 1)
	assert.Empty(t, ActiveSuggestionsByField(withThree, FieldNotes))

	withdrawn, ok := DeactivateSuggestion(withThree, s1.ID)
	require.True(t, ok)
	titles = ActiveSuggestionsByField(withdrawn, FieldTitle)
	require.Len(t, titles, 1)
	assert.Equal(t, s2.ID, titles[0].ID)
	assert.Len(t, withdrawn.Suggestions.ByField[FieldTitle], 2, "withdrawn suggestion is kept")
	assert.Len(t, ActiveSuggestionsByField(withThree, FieldTitle), 2, "input is not modified")

	_, ok = DeactivateSuggestion(withdrawn, s1.ID)
	assert.False(t, ok)

	found, ok := FindSuggestion(withdrawn, s1.ID)
	require.True(t, ok)
	assert.False(t, found.Active)
	_, ok = FindSuggestion(withdrawn, "missing")
	assert.False(t, ok)
}

func TestReconciliationScenario(t *testing.T) {
	doc := EnsureAppointmentDoc(Appointment{ID: "a1"}, alice)
	assert.Equal(t, Reconciled, EvaluateReconciliation(doc, alice).Status, "no constraints")

	doc, added := UpsertConstraintForMember(doc, alice, ConstraintInput{Field: FieldTitle, Operator: OpEq, Value: "Dinner"})
	require.True(t, added)
	constraintA := doc.Constraints[0].ID
	assert.Equal(t, Reconciled, EvaluateReconciliation(doc, alice).Status, "a single constraint agrees with itself")

	doc, added = UpsertConstraintForMember(doc, bob, ConstraintInput{Field: FieldTitle, Operator: OpEq, Value: "Lunch"})
	require.True(t, added)
	constraintB := doc.Constraints[1].ID
	rec := EvaluateReconciliation(doc, bob)
	assert.Equal(t, Unreconciled, rec.Status)
	assert.Equal(t, []string{"title: 2 constraints disagree across 2 values"}, rec.Reasons)

	doc, added = UpsertConstraintForMember(doc, bob, ConstraintInput{ConstraintID: constraintB, Field: FieldTitle, Operator: OpEq, Value: "Dinner"})
	require.False(t, added)
	require.Len(t, doc.Constraints, 2)
	assert.Equal(t, Reconciled, EvaluateReconciliation(doc, bob).Status)

	doc, removed := RemoveConstraintForMember(doc, alice, constraintA)
	require.True(t, removed)
	require.Len(t, doc.Constraints, 1)
	assert.Equal(t, Reconciled, EvaluateReconciliation(doc, alice).Status)
}

func TestUpsertConstraintForMember(t *testing.T) {
	doc := EnsureAppointmentDoc(Appointment{ID: "a1"}, alice)
	doc, _ = UpsertConstraintForMember(doc, alice, ConstraintInput{Field: FieldLocation, Value: "Park"})
	id := doc.Constraints[0].ID
	assert.Equal(t, OpEq, doc.Constraints[0].Operator, "operator defaults to eq")

	t.Run("same member and field edits in place", func(t *testing.T) {
		out, added := UpsertConstraintForMember(doc, alice, ConstraintInput{Field: FieldLocation, Operator: OpNeq, Value: "Mall"})
		assert.False(t, added)
		require.Len(t, out.Constraints, 1)
		assert.Equal(t, id, out.Constraints[0].ID)
		assert.Equal(t, OpNeq, out.Constraints[0].Operator)
		assert.Equal(t, "Park", doc.Constraints[0].Value, "input is not modified")
	})

	t.Run("foreign constraint id is not edited", func(t *testing.T) {
		out, added := UpsertConstraintForMember(doc, bob, ConstraintInput{ConstraintID: id, Field: FieldLocation, Value: "Beach"})
		assert.False(t, added)
		assert.Equal(t, doc, out)
	})

	t.Run("caller supplied id is kept for new constraints", func(t *testing.T) {
		out, added := UpsertConstraintForMember(doc, bob, ConstraintInput{ConstraintID: "bob-loc", Field: FieldLocation, Value: "Beach"})
		assert.True(t, added)
		require.Len(t, out.Constraints, 2)
		assert.Equal(t, "bob-loc", out.Constraints[1].ID)
	})
}

func TestRemoveConstraintForMember_OwnerOnly(t *testing.T) {
	doc := EnsureAppointmentDoc(Appointment{ID: "a1"}, alice)
	doc, _ = UpsertConstraintForMember(doc, alice, ConstraintInput{Field: FieldTitle, Value: "Dinner"})
	id := doc.Constraints[0].ID

	out, removed := RemoveConstraintForMember(doc, bob, id)
	assert.False(t, removed)
	assert.Len(t, out.Constraints, 1)

	out, removed = RemoveConstraintForMember(doc, alice, "missing")
	assert.False(t, removed)
	assert.Len(t, out.Constraints, 1)
}

func TestEvaluateReconciliation_StructuralEquality(t *testing.T) {
	doc := Appointment{Constraints: []Constraint{
		{ID: "1", MemberEmail: alice, Field: "people", Value: []any{"ann", "ben"}},
		{ID: "2", MemberEmail: bob, Field: "people", Value: []string{"ann", "ben"}},
		{ID: "3", MemberEmail: alice, Field: "durationMins", Value: 90},
		{ID: "4", MemberEmail: bob, Field: "durationMins", Value: float64(90)},
	}}
	before := doc.clone()

	rec := EvaluateReconciliation(doc, alice)
	assert.Equal(t, Reconciled, rec.Status)
	assert.Empty(t, rec.Reasons)
	assert.Equal(t, alice, rec.EvaluatedBy)
	assert.Equal(t, before, doc)
}

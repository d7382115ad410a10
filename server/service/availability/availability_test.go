package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kinsync/plugin/ai/aitime"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
		{"garbage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinutes(tt.input))
		})
	}
}

func TestIntervalBounds(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		want Bounds
	}{
		{"whole day", Interval{Date: "2026-03-03"}, Bounds{0, 1440}},
		{"default duration", Interval{Date: "2026-03-03", StartTime: "13:00"}, Bounds{780, 840}},
		{"explicit duration", Interval{Date: "2026-03-03", StartTime: "13:00", DurationMins: 90}, Bounds{780, 870}},
		{"clamped to end of day", Interval{Date: "2026-03-03", StartTime: "23:30", DurationMins: 120}, Bounds{1410, 1440}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalBounds(tt.iv))
		})
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.True(t, Overlaps(Bounds{0, 60}, Bounds{30, 90}))
	assert.False(t, Overlaps(Bounds{0, 60}, Bounds{60, 120}), "touching ranges do not overlap")
	assert.True(t, Overlaps(Bounds{0, 1440}, Bounds{600, 660}))
}

func TestDescribeInterval(t *testing.T) {
	assert.Equal(t, "2026-03-03 (all day)", DescribeInterval(Interval{Date: "2026-03-03"}))
	assert.Equal(t, "2026-03-03 13:00-14:30", DescribeInterval(Interval{Date: "2026-03-03", StartTime: "13:00", DurationMins: 90}))
}

func TestComputePersonStatusForInterval(t *testing.T) {
	candidate := Interval{Date: "2026-03-03", StartTime: "13:00", DurationMins: 60}

	t.Run("unavailable wins", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Date: "2026-03-03", Kind: KindAvailable, Code: "A1"},
			{PersonID: "p1", Date: "2026-03-03", StartTime: "12:30", DurationMins: 60, Kind: KindUnavailable, Code: "U1", Desc: "dentist"},
		}
		got := ComputePersonStatusForInterval("p1", candidate, rules)
		assert.Equal(t, StatusUnavailable, got.Status)
		require.Len(t, got.Reasons, 1)
		assert.Equal(t, "U1 unavailable 2026-03-03 12:30-13:30: dentist", got.Reasons[0])
	})

	t.Run("available when only available overlaps", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Date: "2026-03-03", StartTime: "09:00", DurationMins: 480, Kind: KindAvailable, Code: "A1"},
			{PersonID: "p1", Date: "2026-03-03", StartTime: "18:00", Kind: KindUnavailable, Code: "U1"},
		}
		got := ComputePersonStatusForInterval("p1", candidate, rules)
		assert.Equal(t, StatusAvailable, got.Status)
		assert.Equal(t, []string{"A1 available 2026-03-03 09:00-17:00"}, got.Reasons)
	})

	t.Run("unknown when nothing matches", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p2", Date: "2026-03-03", Kind: KindUnavailable, Code: "X"},
			{PersonID: "p1", Date: "2026-03-04", Kind: KindUnavailable, Code: "Y"},
			{PersonID: "p1", Date: "2026-03-03", StartTime: "14:00", Kind: KindUnavailable, Code: "Z"},
			{Date: "2026-03-03", Kind: KindUnavailable, Code: "NOPERSON"},
		}
		got := ComputePersonStatusForInterval("p1", candidate, rules)
		assert.Equal(t, StatusUnknown, got.Status)
		assert.Empty(t, got.Reasons)
	})
}

func TestComputePersonStatusForRange(t *testing.T) {
	start := time.Date(2026, 3, 3, 21, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	rules := []Rule{
		NewRuleV2("p1", KindAvailable, start.Add(-2*time.Hour), end, "America/Los_Angeles", ""),
		NewRuleV2("p1", KindUnavailable, end, end.Add(time.Hour), "America/Los_Angeles", ""),
		NewRuleV2("p2", KindUnavailable, start, end, "UTC", ""),
	}

	got := ComputeGroupStatus([]string{"p1", "p2", "p3"}, start, end, rules)
	assert.Equal(t, StatusAvailable, got["p1"].Status, "touching unavailable rule does not overlap")
	assert.Equal(t, StatusUnavailable, got["p2"].Status)
	assert.Equal(t, StatusUnknown, got["p3"].Status)
	require.Len(t, got["p2"].Reasons, 1)
	assert.Contains(t, got["p2"].Reasons[0], "2026-03-03 21:00-22:00 UTC")
}

func TestNormalizeRulesV2(t *testing.T) {
	t0 := time.Date(2026, 3, 3, 16, 0, 0, 0, time.UTC)

	t.Run("touching rules merge", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Kind: KindUnavailable, Code: "A", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
			{PersonID: "p1", Kind: KindUnavailable, Code: "B", StartUtc: t0.Add(time.Hour), EndUtc: t0.Add(2 * time.Hour)},
		}
		got := NormalizeRulesV2(rules)
		require.Len(t, got, 1)
		assert.Equal(t, t0, got[0].StartUtc)
		assert.Equal(t, t0.Add(2*time.Hour), got[0].EndUtc)
		assert.Equal(t, "A", got[0].Code)
	})

	t.Run("gap keeps separate runs sorted", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Kind: KindUnavailable, Code: "late", StartUtc: t0.Add(3 * time.Hour), EndUtc: t0.Add(4 * time.Hour)},
			{PersonID: "p1", Kind: KindUnavailable, Code: "early", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
		}
		got := NormalizeRulesV2(rules)
		require.Len(t, got, 2)
		assert.Equal(t, "early", got[0].Code)
		assert.Equal(t, "late", got[1].Code)
	})

	t.Run("different groups never merge and keep group order", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p2", Kind: KindUnavailable, Code: "p2", StartUtc: t0.Add(5 * time.Hour), EndUtc: t0.Add(6 * time.Hour)},
			{PersonID: "p1", Kind: KindUnavailable, Code: "p1u", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
			{PersonID: "p1", Kind: KindAvailable, Code: "p1a", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
			{PersonID: "p1", Kind: KindUnavailable, PromptID: "other", Code: "p1u2", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
		}
		got := NormalizeRulesV2(rules)
		require.Len(t, got, 4)
		assert.Equal(t, []string{"p2", "p1u", "p1a", "p1u2"}, []string{got[0].Code, got[1].Code, got[2].Code, got[3].Code})
	})

	t.Run("assumptions union and timezone conflict note", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Kind: KindUnavailable, Code: "A", Timezone: "America/Los_Angeles", Assumptions: []string{"assumed PM"}, StartUtc: t0, EndUtc: t0.Add(2 * time.Hour)},
			{PersonID: "p1", Kind: KindUnavailable, Code: "B", Timezone: "Europe/London", Assumptions: []string{"assumed PM", "assumed 1h"}, StartUtc: t0.Add(time.Hour), EndUtc: t0.Add(90 * time.Minute)},
		}
		got := NormalizeRulesV2(rules)
		require.Len(t, got, 1)
		assert.Equal(t, "America/Los_Angeles", got[0].Timezone)
		assert.Equal(t, t0.Add(2*time.Hour), got[0].EndUtc, "contained rule does not shrink the run")
		require.Len(t, got[0].Assumptions, 3)
		assert.Equal(t, "assumed PM", got[0].Assumptions[0])
		assert.Equal(t, "assumed 1h", got[0].Assumptions[1])
		assert.Contains(t, got[0].Assumptions[2], "kept America/Los_Angeles")
		assert.Len(t, rules[0].Assumptions, 1, "input must not be mutated")
	})

	t.Run("rules without range pass through", func(t *testing.T) {
		rules := []Rule{
			{PersonID: "p1", Kind: KindUnavailable, Code: "dated", Date: "2026-03-03"},
			{PersonID: "p1", Kind: KindUnavailable, Code: "ranged", StartUtc: t0, EndUtc: t0.Add(time.Hour)},
		}
		got := NormalizeRulesV2(rules)
		require.Len(t, got, 2)
		assert.Equal(t, "ranged", got[0].Code)
		assert.Equal(t, "dated", got[1].Code)
	})
}

func TestNewRuleCode(t *testing.T) {
	code := NewRuleCode()
	assert.Len(t, code, 7)
	assert.Equal(t, byte('R'), code[0])
	assert.NotEqual(t, code, NewRuleCode())
}

func TestRuleFromResolved(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	spec := aitime.NewParser(loc).WithNow(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)).Resolve("3/3 1pm")

	r, ok := RuleFromResolved("p1", KindUnavailable, spec, "prompt-1")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 3, 21, 0, 0, 0, time.UTC), r.StartUtc)
	assert.Equal(t, time.Date(2026, 3, 3, 22, 0, 0, 0, time.UTC), r.EndUtc)
	assert.Equal(t, "America/Los_Angeles", r.Timezone)
	assert.Equal(t, "prompt-1", r.PromptID)
	assert.Equal(t, "3/3 1pm", r.Desc)
	assert.NotEmpty(t, r.Assumptions)

	_, ok = RuleFromResolved("p1", KindUnavailable, aitime.TimeSpec{Intent: aitime.TimeIntent{Status: aitime.StatusPartial}}, "")
	assert.False(t, ok)
}

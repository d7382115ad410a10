package availability

import (
	"fmt"
	"slices"
	"sort"
)

type groupKey struct {
	personID string
	kind     RuleKind
	promptID string
}

// NormalizeRulesV2 coalesces overlapping or touching UTC-scoped rules that
// share (personId, kind, promptId).
//
// Groups are emitted in order of first appearance; within a group the merged
// runs are sorted by (startUtc, endUtc). The output is not globally
// time-sorted across groups. Rules without a usable UTC range are passed
// through unchanged after the merged runs of their group. The input slice
// is not modified.
func NormalizeRulesV2(rules []Rule) []Rule {
	var order []groupKey
	groups := make(map[groupKey][]Rule)
	for _, r := range rules {
		k := groupKey{personID: r.PersonID, kind: r.Kind, promptID: r.PromptID}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]Rule, 0, len(rules))
	for _, k := range order {
		var ranged, unranged []Rule
		for _, r := range groups[k] {
			if r.HasUTCRange() {
				ranged = append(ranged, r)
			} else {
				unranged = append(unranged, r)
			}
		}

		sort.SliceStable(ranged, func(i, j int) bool {
			if !ranged[i].StartUtc.Equal(ranged[j].StartUtc) {
				return ranged[i].StartUtc.Before(ranged[j].StartUtc)
			}
			return ranged[i].EndUtc.Before(ranged[j].EndUtc)
		})

		var current *Rule
		for _, r := range ranged {
			if current != nil && !r.StartUtc.After(current.EndUtc) {
				mergeInto(current, r)
				continue
			}
			if current != nil {
				out = append(out, *current)
			}
			c := r
			c.Assumptions = slices.Clone(r.Assumptions)
			current = &c
		}
		if current != nil {
			out = append(out, *current)
		}
		out = append(out, unranged...)
	}
	return out
}

// mergeInto extends dst with src. dst keeps its timezone; a disagreeing
// timezone is recorded as an assumption.
func mergeInto(dst *Rule, src Rule) {
	if src.EndUtc.After(dst.EndUtc) {
		dst.EndUtc = src.EndUtc
	}
	for _, a := range src.Assumptions {
		if !slices.Contains(dst.Assumptions, a) {
			dst.Assumptions = append(dst.Assumptions, a)
		}
	}

	switch {
	case dst.Timezone == "":
		dst.Timezone = src.Timezone
	case src.Timezone != "" && src.Timezone != dst.Timezone:
		note := fmt.Sprintf("timezone conflict while merging %s: kept %s, ignored %s",
			src.Code, dst.Timezone, src.Timezone)
		if !slices.Contains(dst.Assumptions, note) {
			dst.Assumptions = append(dst.Assumptions, note)
		}
	}
}

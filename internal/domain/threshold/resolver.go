// Package threshold merges amount-range approval rules into a canonical bracket list.
package threshold

import (
	"math"
	"sort"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// DefaultSentinel is the ceiling at or above which a rule's MaxAmount means "no limit"
const DefaultSentinel int64 = 999_999_999_999

// Resolver turns agreement and decision rules into brackets
type Resolver struct {
	Sentinel int64
}

// NewResolver creates a resolver; a non-positive sentinel falls back to DefaultSentinel
func NewResolver(sentinel int64) *Resolver {
	if sentinel <= 0 {
		sentinel = DefaultSentinel
	}
	return &Resolver{Sentinel: sentinel}
}

// ResolveBrackets resolves rules using DefaultSentinel
func ResolveBrackets(agreements, decisions []entity.AmountRule) []entity.Bracket {
	return NewResolver(DefaultSentinel).Resolve(agreements, decisions)
}

// span is an AmountRule with its upper bound normalized
type span struct {
	rule  entity.AmountRule
	upper int64 // math.MaxInt64 when unbounded
}

func (s span) matches(sample int64) bool {
	return s.rule.MinAmount < sample && sample <= s.upper
}

// Resolve partitions [0, ∞) at every rule boundary, resolves the stakeholders of each
// partition and merges neighbours that end up with the same stakeholders.
// Rules are not validated: a rule with MinAmount >= MaxAmount simply never matches.
// Amounts must be non-negative and below math.MaxInt64; callers reject anything else.
func (r *Resolver) Resolve(agreements, decisions []entity.AmountRule) []entity.Bracket {
	if len(agreements) == 0 && len(decisions) == 0 {
		return []entity.Bracket{}
	}

	agrSpans := r.normalize(agreements)
	decSpans := r.normalize(decisions)

	// Approvers are listed by ascending MinAmount; input order breaks ties
	sort.SliceStable(agrSpans, func(i, j int) bool {
		return agrSpans[i].rule.MinAmount < agrSpans[j].rule.MinAmount
	})

	boundaries := collectBoundaries(agrSpans, decSpans)

	brackets := make([]entity.Bracket, 0, len(boundaries))
	for i, start := range boundaries {
		var end *int64
		if i+1 < len(boundaries) {
			e := boundaries[i+1]
			end = &e
		}

		// Any value in (start, end] resolves identically
		sample := start + 1

		approvers := []string{}
		for _, s := range agrSpans {
			if s.matches(sample) {
				approvers = append(approvers, s.rule.Stakeholder)
			}
		}

		var decisionMaker *string
		for _, s := range decSpans {
			if s.matches(sample) {
				dm := s.rule.Stakeholder
				decisionMaker = &dm
				break
			}
		}

		brackets = append(brackets, entity.Bracket{
			Start:         start,
			End:           end,
			Approvers:     approvers,
			DecisionMaker: decisionMaker,
		})
	}

	return mergeAdjacent(brackets)
}

// normalize copies rules, mapping 0 and sentinel-or-above upper bounds to +∞
func (r *Resolver) normalize(rules []entity.AmountRule) []span {
	spans := make([]span, 0, len(rules))
	for _, rule := range rules {
		upper := rule.MaxAmount
		if rule.IsUnbounded(r.Sentinel) {
			upper = math.MaxInt64
		}
		spans = append(spans, span{rule: rule, upper: upper})
	}
	return spans
}

// collectBoundaries returns {0} ∪ mins ∪ finite maxes, sorted and deduplicated
func collectBoundaries(groups ...[]span) []int64 {
	seen := map[int64]bool{0: true}
	for _, spans := range groups {
		for _, s := range spans {
			seen[s.rule.MinAmount] = true
			if s.upper != math.MaxInt64 {
				seen[s.upper] = true
			}
		}
	}

	boundaries := make([]int64, 0, len(seen))
	for b := range seen {
		boundaries = append(boundaries, b)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })
	return boundaries
}

// mergeAdjacent collapses neighbouring brackets with the same display stakeholders
func mergeAdjacent(brackets []entity.Bracket) []entity.Bracket {
	if len(brackets) == 0 {
		return brackets
	}

	merged := make([]entity.Bracket, 0, len(brackets))
	current := brackets[0]
	for _, next := range brackets[1:] {
		if sameStakeholders(current, next) {
			current.End = next.End
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func sameStakeholders(a, b entity.Bracket) bool {
	return a.ApproverLabel() == b.ApproverLabel() && a.DecisionLabel() == b.DecisionLabel()
}

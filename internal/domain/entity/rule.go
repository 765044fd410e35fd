package entity

import "strings"

// RuleKind distinguishes the two amount rule collections
type RuleKind string

const (
	RuleKindAgreement RuleKind = "agreement" // cumulative, any number per bracket
	RuleKindDecision  RuleKind = "decision"  // exclusive, one per bracket
)

// IsValid returns true if the kind is a known rule collection
func (k RuleKind) IsValid() bool {
	return k == RuleKindAgreement || k == RuleKindDecision
}

// String returns the string representation of the kind
func (k RuleKind) String() string {
	return string(k)
}

// AmountRule assigns a stakeholder to the amount range (MinAmount, MaxAmount].
// A MaxAmount of 0, or one at or above the configured sentinel, means no upper bound.
type AmountRule struct {
	ID          int64    `json:"id"`
	Kind        RuleKind `json:"kind"`
	MinAmount   int64    `json:"min_amount"`
	MaxAmount   int64    `json:"max_amount"`
	Stakeholder string   `json:"stakeholder"`
}

// IsUnbounded reports whether the rule has no upper limit under the given sentinel
func (r AmountRule) IsUnbounded(sentinel int64) bool {
	return r.MaxAmount == 0 || r.MaxAmount >= sentinel
}

// TypeRule requires an additional agreement for every contract of a category,
// regardless of amount
type TypeRule struct {
	ID           int64    `json:"id"`
	ContractType Category `json:"contract_type"`
	Approver     string   `json:"approver"`
	Basis        string   `json:"basis,omitempty"`
}

// Bracket is one resolved amount range (Start, End] with its stakeholders.
// End is nil when the bracket has no upper limit.
type Bracket struct {
	Start         int64    `json:"start"`
	End           *int64   `json:"end"`
	Approvers     []string `json:"approvers"`
	DecisionMaker *string  `json:"decision_maker"`
}

// Contains reports whether amount falls inside the bracket.
// The first bracket (Start == 0) also holds an amount of exactly 0.
func (b Bracket) Contains(amount int64) bool {
	if amount < b.Start || (amount == b.Start && b.Start != 0) {
		return false
	}
	return b.End == nil || amount <= *b.End
}

// ApproverLabel joins the approvers for display, "-" when there are none
func (b Bracket) ApproverLabel() string {
	if len(b.Approvers) == 0 {
		return "-"
	}
	return strings.Join(b.Approvers, ", ")
}

// DecisionLabel returns the decision maker for display, "-" when unset
func (b Bracket) DecisionLabel() string {
	if b.DecisionMaker == nil {
		return "-"
	}
	return *b.DecisionMaker
}

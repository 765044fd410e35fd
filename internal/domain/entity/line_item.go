package entity

import "time"

// AllocationKind tells how an allocation's value is interpreted
type AllocationKind string

const (
	AllocationKindPercentage AllocationKind = "percentage" // share of the line item total
	AllocationKindFixed      AllocationKind = "fixed"      // absolute amount
)

// IsValid returns true if the kind is one of the defined constants
func (k AllocationKind) IsValid() bool {
	return k == AllocationKindPercentage || k == AllocationKindFixed
}

// String returns the string representation of the kind
func (k AllocationKind) String() string {
	return string(k)
}

// Allocation is one department's share of a line item's cost
type Allocation struct {
	ID         string         `json:"id"`
	Department string         `json:"department"`
	Kind       AllocationKind `json:"kind"`
	Value      float64        `json:"value"`
}

// LineItem is a billable item whose Amount is split across cost-bearing departments.
// Amount does not change while allocations are being edited.
type LineItem struct {
	ID          int64        `json:"id"`
	ProposalID  int64        `json:"proposal_id"`
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	Amount      float64      `json:"amount"`
	Allocations []Allocation `json:"allocations"`
	Finalized   bool         `json:"finalized"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

package entity

import "errors"

var (
	// Lookup errors
	ErrRuleNotFound       = errors.New("rule not found")
	ErrLineItemNotFound   = errors.New("line item not found")
	ErrAllocationNotFound = errors.New("allocation not found")

	// Input errors
	ErrInvalidCategory       = errors.New("invalid contract category")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrInvalidRuleKind       = errors.New("invalid rule kind")
	ErrInvalidAllocationKind = errors.New("invalid allocation kind")
	ErrInvalidRule           = errors.New("invalid rule")

	// Finalization errors
	ErrAllocationIncomplete = errors.New("cost allocation does not cover the line item amount")
	ErrLineItemFinalized    = errors.New("line item is already finalized")
)

package port

import (
	"context"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// RuleRepository defines persistence operations for approval rules.
// Rules are owned and edited by administrators; the approval matrix only reads them.
type RuleRepository interface {
	// ListAmountRules returns the rules of one collection in insertion order
	ListAmountRules(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error)

	// CreateAmountRule inserts a rule and sets its ID
	CreateAmountRule(ctx context.Context, rule *entity.AmountRule) error

	// DeleteAmountRule removes a rule, returning entity.ErrRuleNotFound if absent
	DeleteAmountRule(ctx context.Context, kind entity.RuleKind, id int64) error

	// ListTypeRules returns all contract-type rules in insertion order
	ListTypeRules(ctx context.Context) ([]entity.TypeRule, error)

	// CreateTypeRule inserts a rule and sets its ID
	CreateTypeRule(ctx context.Context, rule *entity.TypeRule) error

	// DeleteTypeRule removes a rule, returning entity.ErrRuleNotFound if absent
	DeleteTypeRule(ctx context.Context, id int64) error
}

// LineItemRepository defines persistence operations for LineItem and its allocations
type LineItemRepository interface {
	Create(ctx context.Context, item *entity.LineItem) error

	// GetByID loads the item with its allocations in order,
	// returning entity.ErrLineItemNotFound if absent
	GetByID(ctx context.Context, id int64) (*entity.LineItem, error)

	// ReplaceAllocations overwrites the item's allocation list
	ReplaceAllocations(ctx context.Context, lineItemID int64, allocations []entity.Allocation) error

	MarkFinalized(ctx context.Context, id int64) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MatrixExporter renders the approval matrix as a downloadable document
type MatrixExporter interface {
	Export(brackets []entity.Bracket, typeRules []entity.TypeRule) ([]byte, error)
}

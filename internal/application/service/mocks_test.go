package service

import (
	"context"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// Mock repositories
type mockRuleRepo struct {
	listAmountRulesFunc  func(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error)
	createAmountRuleFunc func(ctx context.Context, rule *entity.AmountRule) error
	deleteAmountRuleFunc func(ctx context.Context, kind entity.RuleKind, id int64) error
	listTypeRulesFunc    func(ctx context.Context) ([]entity.TypeRule, error)
	createTypeRuleFunc   func(ctx context.Context, rule *entity.TypeRule) error
	deleteTypeRuleFunc   func(ctx context.Context, id int64) error
}

func (m *mockRuleRepo) ListAmountRules(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error) {
	if m.listAmountRulesFunc != nil {
		return m.listAmountRulesFunc(ctx, kind)
	}
	return []entity.AmountRule{}, nil
}

func (m *mockRuleRepo) CreateAmountRule(ctx context.Context, rule *entity.AmountRule) error {
	if m.createAmountRuleFunc != nil {
		return m.createAmountRuleFunc(ctx, rule)
	}
	rule.ID = 1
	return nil
}

func (m *mockRuleRepo) DeleteAmountRule(ctx context.Context, kind entity.RuleKind, id int64) error {
	if m.deleteAmountRuleFunc != nil {
		return m.deleteAmountRuleFunc(ctx, kind, id)
	}
	return nil
}

func (m *mockRuleRepo) ListTypeRules(ctx context.Context) ([]entity.TypeRule, error) {
	if m.listTypeRulesFunc != nil {
		return m.listTypeRulesFunc(ctx)
	}
	return []entity.TypeRule{}, nil
}

func (m *mockRuleRepo) CreateTypeRule(ctx context.Context, rule *entity.TypeRule) error {
	if m.createTypeRuleFunc != nil {
		return m.createTypeRuleFunc(ctx, rule)
	}
	rule.ID = 1
	return nil
}

func (m *mockRuleRepo) DeleteTypeRule(ctx context.Context, id int64) error {
	if m.deleteTypeRuleFunc != nil {
		return m.deleteTypeRuleFunc(ctx, id)
	}
	return nil
}

// mockLineItemRepo keeps items in memory
type mockLineItemRepo struct {
	items map[int64]*entity.LineItem

	replaceAllocationsFunc func(ctx context.Context, lineItemID int64, allocations []entity.Allocation) error
	replaceCalls           int
}

func newMockLineItemRepo(items ...*entity.LineItem) *mockLineItemRepo {
	m := &mockLineItemRepo{items: make(map[int64]*entity.LineItem)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *mockLineItemRepo) Create(ctx context.Context, item *entity.LineItem) error {
	item.ID = int64(len(m.items) + 1)
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockLineItemRepo) GetByID(ctx context.Context, id int64) (*entity.LineItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, entity.ErrLineItemNotFound
	}
	copied := *item
	copied.Allocations = append([]entity.Allocation(nil), item.Allocations...)
	return &copied, nil
}

func (m *mockLineItemRepo) ReplaceAllocations(ctx context.Context, lineItemID int64, allocations []entity.Allocation) error {
	m.replaceCalls++
	if m.replaceAllocationsFunc != nil {
		return m.replaceAllocationsFunc(ctx, lineItemID, allocations)
	}
	item, ok := m.items[lineItemID]
	if !ok {
		return entity.ErrLineItemNotFound
	}
	item.Allocations = append([]entity.Allocation(nil), allocations...)
	return nil
}

func (m *mockLineItemRepo) MarkFinalized(ctx context.Context, id int64) error {
	item, ok := m.items[id]
	if !ok {
		return entity.ErrLineItemNotFound
	}
	item.Finalized = true
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockExporter struct {
	exportFunc func(brackets []entity.Bracket, typeRules []entity.TypeRule) ([]byte, error)
}

func (m *mockExporter) Export(brackets []entity.Bracket, typeRules []entity.TypeRule) ([]byte, error) {
	if m.exportFunc != nil {
		return m.exportFunc(brackets, typeRules)
	}
	return []byte("xlsx"), nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

func ruleSet() *mockRuleRepo {
	return &mockRuleRepo{
		listAmountRulesFunc: func(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error) {
			if kind == entity.RuleKindAgreement {
				return []entity.AmountRule{
					{ID: 1, Kind: kind, MinAmount: 0, MaxAmount: 5_000_000, Stakeholder: "A"},
					{ID: 2, Kind: kind, MinAmount: 1_000_000, MaxAmount: 0, Stakeholder: "B"},
				}, nil
			}
			return []entity.AmountRule{
				{ID: 3, Kind: kind, MinAmount: 0, MaxAmount: 0, Stakeholder: "X"},
			}, nil
		},
		listTypeRulesFunc: func(ctx context.Context) ([]entity.TypeRule, error) {
			return []entity.TypeRule{
				{ID: 1, ContractType: entity.CategoryService, Approver: "Legal"},
				{ID: 2, ContractType: entity.CategoryAmendment, Approver: "Finance"},
			}, nil
		},
	}
}

func TestApprovalMatrixService_Brackets(t *testing.T) {
	svc := NewApprovalMatrixService(ruleSet(), &mockExporter{}, 0, &mockLogger{})

	brackets, err := svc.Brackets(context.Background())
	require.NoError(t, err)
	require.Len(t, brackets, 3)

	assert.Equal(t, []string{"A"}, brackets[0].Approvers)
	assert.Equal(t, []string{"A", "B"}, brackets[1].Approvers)
	assert.Equal(t, []string{"B"}, brackets[2].Approvers)
	assert.Nil(t, brackets[2].End)
	for _, b := range brackets {
		require.NotNil(t, b.DecisionMaker)
		assert.Equal(t, "X", *b.DecisionMaker)
	}
}

func TestApprovalMatrixService_BracketsRepoError(t *testing.T) {
	repoErr := errors.New("disk full")
	repo := &mockRuleRepo{
		listAmountRulesFunc: func(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error) {
			return nil, repoErr
		},
	}
	svc := NewApprovalMatrixService(repo, &mockExporter{}, 0, &mockLogger{})

	_, err := svc.Brackets(context.Background())
	assert.ErrorIs(t, err, repoErr)
}

func TestApprovalMatrixService_Lookup(t *testing.T) {
	svc := NewApprovalMatrixService(ruleSet(), &mockExporter{}, 0, &mockLogger{})

	tests := []struct {
		name          string
		amount        int64
		category      entity.Category
		wantApprovers []string
		wantTypes     int
	}{
		{"zero amount", 0, entity.CategoryStandardPurchase, []string{"A"}, 0},
		{"boundary stays in lower bracket", 1_000_000, entity.CategoryService, []string{"A"}, 1},
		{"overlap", 3_000_000, entity.CategoryAmendment, []string{"A", "B"}, 1},
		{"open-ended", 9_000_000, entity.CategoryOther, []string{"B"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Lookup(context.Background(), tt.amount, tt.category)
			require.NoError(t, err)
			require.NotNil(t, result.Bracket)
			assert.Equal(t, tt.wantApprovers, result.Bracket.Approvers)
			assert.Len(t, result.TypeAgreements, tt.wantTypes)
		})
	}

	t.Run("negative amount", func(t *testing.T) {
		_, err := svc.Lookup(context.Background(), -1, entity.CategoryOther)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount)
	})

	t.Run("no rules configured", func(t *testing.T) {
		empty := NewApprovalMatrixService(&mockRuleRepo{}, &mockExporter{}, 0, &mockLogger{})
		result, err := empty.Lookup(context.Background(), 10, entity.CategoryOther)
		require.NoError(t, err)
		assert.Nil(t, result.Bracket)
		assert.Empty(t, result.TypeAgreements)
	})
}

func TestApprovalMatrixService_ApprovalLine(t *testing.T) {
	svc := NewApprovalMatrixService(&mockRuleRepo{}, &mockExporter{}, 0, &mockLogger{})

	steps, err := svc.ApprovalLine(1_500_000, entity.CategoryStandardPurchase)
	require.NoError(t, err)
	assert.Len(t, steps, 2)
	assert.True(t, steps[len(steps)-1].Final)

	_, err = svc.ApprovalLine(-5, entity.CategoryStandardPurchase)
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
}

func TestApprovalMatrixService_Export(t *testing.T) {
	var gotBrackets []entity.Bracket
	var gotTypes []entity.TypeRule
	exporter := &mockExporter{
		exportFunc: func(brackets []entity.Bracket, typeRules []entity.TypeRule) ([]byte, error) {
			gotBrackets, gotTypes = brackets, typeRules
			return []byte("workbook"), nil
		},
	}
	svc := NewApprovalMatrixService(ruleSet(), exporter, 0, &mockLogger{})

	data, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook"), data)
	assert.Len(t, gotBrackets, 3)
	assert.Len(t, gotTypes, 2)

	exporter.exportFunc = func([]entity.Bracket, []entity.TypeRule) ([]byte, error) {
		return nil, errors.New("boom")
	}
	_, err = svc.Export(context.Background())
	assert.Error(t, err)
}

func TestApprovalMatrixService_CreateAmountRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    entity.AmountRule
		wantErr error
	}{
		{
			name: "valid",
			rule: entity.AmountRule{Kind: entity.RuleKindAgreement, MinAmount: 0, MaxAmount: 100, Stakeholder: " Director "},
		},
		{
			name: "inverted range is stored as given",
			rule: entity.AmountRule{Kind: entity.RuleKindDecision, MinAmount: 500, MaxAmount: 100, Stakeholder: "CEO"},
		},
		{
			name:    "unknown kind",
			rule:    entity.AmountRule{Kind: "advisory", Stakeholder: "CEO"},
			wantErr: entity.ErrInvalidRuleKind,
		},
		{
			name:    "negative bound",
			rule:    entity.AmountRule{Kind: entity.RuleKindAgreement, MinAmount: -1, Stakeholder: "CEO"},
			wantErr: entity.ErrInvalidAmount,
		},
		{
			name:    "blank stakeholder",
			rule:    entity.AmountRule{Kind: entity.RuleKindAgreement, Stakeholder: "  "},
			wantErr: entity.ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewApprovalMatrixService(&mockRuleRepo{}, &mockExporter{}, 0, &mockLogger{})
			rule := tt.rule

			err := svc.CreateAmountRule(context.Background(), &rule)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), rule.ID)
		})
	}

	t.Run("stakeholder is trimmed", func(t *testing.T) {
		svc := NewApprovalMatrixService(&mockRuleRepo{}, &mockExporter{}, 0, &mockLogger{})
		rule := entity.AmountRule{Kind: entity.RuleKindAgreement, Stakeholder: " Director "}
		require.NoError(t, svc.CreateAmountRule(context.Background(), &rule))
		assert.Equal(t, "Director", rule.Stakeholder)
	})
}

func TestApprovalMatrixService_TypeRules(t *testing.T) {
	svc := NewApprovalMatrixService(&mockRuleRepo{}, &mockExporter{}, 0, &mockLogger{})
	ctx := context.Background()

	err := svc.CreateTypeRule(ctx, &entity.TypeRule{ContractType: "lease", Approver: "Legal"})
	assert.ErrorIs(t, err, entity.ErrInvalidCategory)

	err = svc.CreateTypeRule(ctx, &entity.TypeRule{ContractType: entity.CategoryService})
	assert.ErrorIs(t, err, entity.ErrInvalidRule)

	rule := &entity.TypeRule{ContractType: entity.CategoryService, Approver: "Legal", Basis: "Policy 4.2"}
	require.NoError(t, svc.CreateTypeRule(ctx, rule))
	assert.Equal(t, int64(1), rule.ID)
}

func TestApprovalMatrixService_DeletePassesNotFound(t *testing.T) {
	repo := &mockRuleRepo{
		deleteAmountRuleFunc: func(ctx context.Context, kind entity.RuleKind, id int64) error {
			return entity.ErrRuleNotFound
		},
		deleteTypeRuleFunc: func(ctx context.Context, id int64) error {
			return entity.ErrRuleNotFound
		},
	}
	svc := NewApprovalMatrixService(repo, &mockExporter{}, 0, &mockLogger{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteAmountRule(ctx, entity.RuleKindAgreement, 9), entity.ErrRuleNotFound)
	assert.ErrorIs(t, svc.DeleteAmountRule(ctx, "other", 9), entity.ErrInvalidRuleKind)
	assert.ErrorIs(t, svc.DeleteTypeRule(ctx, 9), entity.ErrRuleNotFound)
}

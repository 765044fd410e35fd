package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

func TestLookup(t *testing.T) {
	brackets := ResolveBrackets(
		[]entity.AmountRule{agreement(0, 10_000_000, "A"), agreement(10_000_000, 0, "B")},
		[]entity.AmountRule{decision(0, 50_000_000, "X"), decision(50_000_000, 0, "Y")},
	)

	tests := []struct {
		name      string
		amount    int64
		approver  string
		decidedBy string
	}{
		{"zero amount", 0, "A", "X"},
		{"inside first", 5_000_000, "A", "X"},
		{"upper bound inclusive", 10_000_000, "A", "X"},
		{"just above boundary", 10_000_001, "B", "X"},
		{"unbounded tail", 900_000_000, "B", "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Lookup(brackets, tt.amount)
			require.True(t, ok)
			assert.Equal(t, tt.approver, b.ApproverLabel())
			assert.Equal(t, tt.decidedBy, b.DecisionLabel())
		})
	}
}

func TestLookup_NoBrackets(t *testing.T) {
	_, ok := Lookup(nil, 100)
	assert.False(t, ok)

	_, ok = Lookup(ResolveBrackets([]entity.AmountRule{agreement(0, 0, "A")}, nil), -1)
	assert.False(t, ok)
}

func TestRequiredTypeAgreements(t *testing.T) {
	rules := []entity.TypeRule{
		{ContractType: entity.CategoryService, Approver: "Compliance Officer", Basis: "Internal control rule 10"},
		{ContractType: entity.CategoryStandardPurchase, Approver: "Procurement"},
		{ContractType: entity.CategoryService, Approver: "Legal Team"},
	}

	got := RequiredTypeAgreements(rules, entity.CategoryService)
	require.Len(t, got, 2)
	assert.Equal(t, "Compliance Officer", got[0].Approver)
	assert.Equal(t, "Legal Team", got[1].Approver)

	none := RequiredTypeAgreements(rules, entity.CategoryFreeform)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

package service

import (
	"context"
	"fmt"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/internal/domain/routing"
	"github.com/garyjia/contract-approval/internal/domain/threshold"
	"github.com/garyjia/contract-approval/pkg/utils"
)

// MatrixLookup is what applies to a single contract amount
type MatrixLookup struct {
	Amount         int64             `json:"amount"`
	Category       entity.Category   `json:"category"`
	Bracket        *entity.Bracket   `json:"bracket"`
	TypeAgreements []entity.TypeRule `json:"type_agreements"`
}

// ApprovalMatrixService resolves stored rules into the approval matrix and approval lines
type ApprovalMatrixService interface {
	Brackets(ctx context.Context) ([]entity.Bracket, error)
	Lookup(ctx context.Context, amount int64, category entity.Category) (*MatrixLookup, error)
	ApprovalLine(amount int64, category entity.Category) ([]entity.ApprovalStep, error)
	Export(ctx context.Context) ([]byte, error)

	ListAmountRules(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error)
	CreateAmountRule(ctx context.Context, rule *entity.AmountRule) error
	DeleteAmountRule(ctx context.Context, kind entity.RuleKind, id int64) error
	ListTypeRules(ctx context.Context) ([]entity.TypeRule, error)
	CreateTypeRule(ctx context.Context, rule *entity.TypeRule) error
	DeleteTypeRule(ctx context.Context, id int64) error
}

type approvalMatrixServiceImpl struct {
	ruleRepo port.RuleRepository
	exporter port.MatrixExporter
	resolver *threshold.Resolver
	logger   Logger
}

// NewApprovalMatrixService creates a new ApprovalMatrixService.
// Rule upper bounds at or above sentinel are treated as unlimited.
func NewApprovalMatrixService(
	ruleRepo port.RuleRepository,
	exporter port.MatrixExporter,
	sentinel int64,
	logger Logger,
) ApprovalMatrixService {
	return &approvalMatrixServiceImpl{
		ruleRepo: ruleRepo,
		exporter: exporter,
		resolver: threshold.NewResolver(sentinel),
		logger:   logger,
	}
}

// Brackets resolves the stored agreement and decision rules
func (s *approvalMatrixServiceImpl) Brackets(ctx context.Context) ([]entity.Bracket, error) {
	agreements, err := s.ruleRepo.ListAmountRules(ctx, entity.RuleKindAgreement)
	if err != nil {
		s.logger.Error("Failed to list agreement rules", "error", err)
		return nil, fmt.Errorf("list agreement rules: %w", err)
	}

	decisions, err := s.ruleRepo.ListAmountRules(ctx, entity.RuleKindDecision)
	if err != nil {
		s.logger.Error("Failed to list decision rules", "error", err)
		return nil, fmt.Errorf("list decision rules: %w", err)
	}

	return s.resolver.Resolve(agreements, decisions), nil
}

// Lookup finds the bracket for amount and the agreements its category always needs
func (s *approvalMatrixServiceImpl) Lookup(ctx context.Context, amount int64, category entity.Category) (*MatrixLookup, error) {
	if amount < 0 {
		return nil, entity.ErrInvalidAmount
	}

	brackets, err := s.Brackets(ctx)
	if err != nil {
		return nil, err
	}

	typeRules, err := s.ruleRepo.ListTypeRules(ctx)
	if err != nil {
		s.logger.Error("Failed to list type rules", "error", err)
		return nil, fmt.Errorf("list type rules: %w", err)
	}

	result := &MatrixLookup{
		Amount:         amount,
		Category:       category,
		TypeAgreements: threshold.RequiredTypeAgreements(typeRules, category),
	}
	if bracket, ok := threshold.Lookup(brackets, amount); ok {
		result.Bracket = &bracket
	}
	return result, nil
}

// ApprovalLine composes the ordered approval steps for a contract
func (s *approvalMatrixServiceImpl) ApprovalLine(amount int64, category entity.Category) ([]entity.ApprovalStep, error) {
	if amount < 0 {
		return nil, entity.ErrInvalidAmount
	}
	return routing.BuildApprovalLine(amount, category), nil
}

// Export renders the resolved matrix and type rules as a workbook
func (s *approvalMatrixServiceImpl) Export(ctx context.Context) ([]byte, error) {
	brackets, err := s.Brackets(ctx)
	if err != nil {
		return nil, err
	}

	typeRules, err := s.ruleRepo.ListTypeRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list type rules: %w", err)
	}

	data, err := s.exporter.Export(brackets, typeRules)
	if err != nil {
		s.logger.Error("Failed to export approval matrix", "error", err)
		return nil, fmt.Errorf("export approval matrix: %w", err)
	}

	s.logger.Info("Approval matrix exported", "brackets", len(brackets), "type_rules", len(typeRules))
	return data, nil
}

// ListAmountRules lists one rule collection
func (s *approvalMatrixServiceImpl) ListAmountRules(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error) {
	if !kind.IsValid() {
		return nil, entity.ErrInvalidRuleKind
	}
	return s.ruleRepo.ListAmountRules(ctx, kind)
}

// CreateAmountRule stores a new agreement or decision rule.
// Overlapping or inverted ranges are stored as given.
func (s *approvalMatrixServiceImpl) CreateAmountRule(ctx context.Context, rule *entity.AmountRule) error {
	if !rule.Kind.IsValid() {
		return entity.ErrInvalidRuleKind
	}
	if err := utils.ValidateBounds(rule.MinAmount, rule.MaxAmount); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}
	rule.Stakeholder = utils.SanitizeString(rule.Stakeholder)
	if rule.Stakeholder == "" {
		return fmt.Errorf("%w: stakeholder is required", entity.ErrInvalidRule)
	}

	if err := s.ruleRepo.CreateAmountRule(ctx, rule); err != nil {
		s.logger.Error("Failed to create amount rule", "error", err, "kind", rule.Kind)
		return err
	}

	s.logger.Info("Amount rule created", "id", rule.ID, "kind", rule.Kind, "stakeholder", rule.Stakeholder)
	return nil
}

// DeleteAmountRule removes a rule from one collection
func (s *approvalMatrixServiceImpl) DeleteAmountRule(ctx context.Context, kind entity.RuleKind, id int64) error {
	if !kind.IsValid() {
		return entity.ErrInvalidRuleKind
	}
	if err := s.ruleRepo.DeleteAmountRule(ctx, kind, id); err != nil {
		return err
	}

	s.logger.Info("Amount rule deleted", "id", id, "kind", kind)
	return nil
}

// ListTypeRules lists the contract-type rules
func (s *approvalMatrixServiceImpl) ListTypeRules(ctx context.Context) ([]entity.TypeRule, error) {
	return s.ruleRepo.ListTypeRules(ctx)
}

// CreateTypeRule stores a new contract-type rule
func (s *approvalMatrixServiceImpl) CreateTypeRule(ctx context.Context, rule *entity.TypeRule) error {
	if !rule.ContractType.IsValid() {
		return entity.ErrInvalidCategory
	}
	rule.Approver = utils.SanitizeString(rule.Approver)
	rule.Basis = utils.SanitizeString(rule.Basis)
	if rule.Approver == "" {
		return fmt.Errorf("%w: approver is required", entity.ErrInvalidRule)
	}

	if err := s.ruleRepo.CreateTypeRule(ctx, rule); err != nil {
		s.logger.Error("Failed to create type rule", "error", err, "contract_type", rule.ContractType)
		return err
	}

	s.logger.Info("Type rule created", "id", rule.ID, "contract_type", rule.ContractType)
	return nil
}

// DeleteTypeRule removes a contract-type rule
func (s *approvalMatrixServiceImpl) DeleteTypeRule(ctx context.Context, id int64) error {
	if err := s.ruleRepo.DeleteTypeRule(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Type rule deleted", "id", id)
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// RuleRepository implements port.RuleRepository
type RuleRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *sqlite.DB, logger *zap.Logger) port.RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

// ListAmountRules returns the rules of one collection in insertion order
func (r *RuleRepository) ListAmountRules(ctx context.Context, kind entity.RuleKind) ([]entity.AmountRule, error) {
	query := `
		SELECT id, kind, min_amount, max_amount, stakeholder
		FROM amount_rules
		WHERE kind = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, string(kind))
	if err != nil {
		r.logger.Error("Failed to list amount rules", zap.String("kind", kind.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list amount rules: %w", err)
	}
	defer rows.Close()

	rules := []entity.AmountRule{}
	for rows.Next() {
		var rule entity.AmountRule
		var ruleKind string
		if err := rows.Scan(&rule.ID, &ruleKind, &rule.MinAmount, &rule.MaxAmount, &rule.Stakeholder); err != nil {
			return nil, fmt.Errorf("failed to scan amount rule: %w", err)
		}
		rule.Kind = entity.RuleKind(ruleKind)
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// CreateAmountRule inserts a rule and sets its ID
func (r *RuleRepository) CreateAmountRule(ctx context.Context, rule *entity.AmountRule) error {
	query := `
		INSERT INTO amount_rules (kind, min_amount, max_amount, stakeholder)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		string(rule.Kind),
		rule.MinAmount,
		rule.MaxAmount,
		rule.Stakeholder,
	)
	if err != nil {
		r.logger.Error("Failed to create amount rule", zap.Error(err))
		return fmt.Errorf("failed to create amount rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// DeleteAmountRule removes a rule from one collection
func (r *RuleRepository) DeleteAmountRule(ctx context.Context, kind entity.RuleKind, id int64) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		"DELETE FROM amount_rules WHERE id = ? AND kind = ?", id, string(kind))
	if err != nil {
		r.logger.Error("Failed to delete amount rule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete amount rule: %w", err)
	}
	return requireAffected(result, entity.ErrRuleNotFound)
}

// ListTypeRules returns all contract-type rules in insertion order
func (r *RuleRepository) ListTypeRules(ctx context.Context) ([]entity.TypeRule, error) {
	query := `
		SELECT id, contract_type, approver, basis
		FROM type_rules
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list type rules", zap.Error(err))
		return nil, fmt.Errorf("failed to list type rules: %w", err)
	}
	defer rows.Close()

	rules := []entity.TypeRule{}
	for rows.Next() {
		var rule entity.TypeRule
		var contractType string
		if err := rows.Scan(&rule.ID, &contractType, &rule.Approver, &rule.Basis); err != nil {
			return nil, fmt.Errorf("failed to scan type rule: %w", err)
		}
		rule.ContractType = entity.Category(contractType)
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// CreateTypeRule inserts a rule and sets its ID
func (r *RuleRepository) CreateTypeRule(ctx context.Context, rule *entity.TypeRule) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		"INSERT INTO type_rules (contract_type, approver, basis) VALUES (?, ?, ?)",
		string(rule.ContractType),
		rule.Approver,
		rule.Basis,
	)
	if err != nil {
		r.logger.Error("Failed to create type rule", zap.Error(err))
		return fmt.Errorf("failed to create type rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// DeleteTypeRule removes a contract-type rule
func (r *RuleRepository) DeleteTypeRule(ctx context.Context, id int64) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM type_rules WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete type rule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete type rule: %w", err)
	}
	return requireAffected(result, entity.ErrRuleNotFound)
}

// Verify interface compliance
var _ port.RuleRepository = (*RuleRepository)(nil)

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// LineItemRepository implements port.LineItemRepository
type LineItemRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *sqlite.DB, logger *zap.Logger) port.LineItemRepository {
	return &LineItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the item and any allocations it already carries
func (r *LineItemRepository) Create(ctx context.Context, item *entity.LineItem) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO line_items (proposal_id, name, category, amount, finalized)
			VALUES (?, ?, ?, ?, ?)
		`

		result, err := r.db.Executor(ctx).ExecContext(ctx, query,
			item.ProposalID,
			item.Name,
			string(item.Category),
			item.Amount,
			item.Finalized,
		)
		if err != nil {
			r.logger.Error("Failed to create line item", zap.Error(err))
			return fmt.Errorf("failed to create line item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id

		return r.insertAllocations(ctx, id, item.Allocations)
	})
}

// GetByID loads the item with its allocations in order
func (r *LineItemRepository) GetByID(ctx context.Context, id int64) (*entity.LineItem, error) {
	query := `
		SELECT id, proposal_id, name, category, amount, finalized, created_at, updated_at
		FROM line_items
		WHERE id = ?
	`

	var item entity.LineItem
	var category string
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.ProposalID,
		&item.Name,
		&category,
		&item.Amount,
		&item.Finalized,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLineItemNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get line item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	item.Category = entity.Category(category)

	allocations, err := r.listAllocations(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Allocations = allocations

	return &item, nil
}

// ReplaceAllocations overwrites the item's allocation list, keeping its order
func (r *LineItemRepository) ReplaceAllocations(ctx context.Context, lineItemID int64, allocations []entity.Allocation) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.db.Executor(ctx).ExecContext(ctx,
			"DELETE FROM line_item_allocations WHERE line_item_id = ?", lineItemID); err != nil {
			r.logger.Error("Failed to clear allocations", zap.Int64("line_item_id", lineItemID), zap.Error(err))
			return fmt.Errorf("failed to clear allocations: %w", err)
		}

		if err := r.insertAllocations(ctx, lineItemID, allocations); err != nil {
			return err
		}

		result, err := r.db.Executor(ctx).ExecContext(ctx,
			"UPDATE line_items SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", lineItemID)
		if err != nil {
			return fmt.Errorf("failed to touch line item: %w", err)
		}
		return requireAffected(result, entity.ErrLineItemNotFound)
	})
}

// MarkFinalized flags the item as finalized
func (r *LineItemRepository) MarkFinalized(ctx context.Context, id int64) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE line_items SET finalized = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to finalize line item", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to finalize line item: %w", err)
	}
	return requireAffected(result, entity.ErrLineItemNotFound)
}

func (r *LineItemRepository) insertAllocations(ctx context.Context, lineItemID int64, allocations []entity.Allocation) error {
	query := `
		INSERT INTO line_item_allocations (id, line_item_id, position, department, kind, value)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for position, a := range allocations {
		if _, err := r.db.Executor(ctx).ExecContext(ctx, query,
			a.ID,
			lineItemID,
			position,
			a.Department,
			string(a.Kind),
			a.Value,
		); err != nil {
			r.logger.Error("Failed to insert allocation",
				zap.Int64("line_item_id", lineItemID),
				zap.Int("position", position),
				zap.Error(err))
			return fmt.Errorf("failed to insert allocation: %w", err)
		}
	}
	return nil
}

func (r *LineItemRepository) listAllocations(ctx context.Context, lineItemID int64) ([]entity.Allocation, error) {
	query := `
		SELECT id, department, kind, value
		FROM line_item_allocations
		WHERE line_item_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations := []entity.Allocation{}
	for rows.Next() {
		var a entity.Allocation
		var kind string
		if err := rows.Scan(&a.ID, &a.Department, &kind, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		a.Kind = entity.AllocationKind(kind)
		allocations = append(allocations, a)
	}

	return allocations, rows.Err()
}

// Verify interface compliance
var _ port.LineItemRepository = (*LineItemRepository)(nil)

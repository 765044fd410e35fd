package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/domain/allocation"
	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/pkg/utils"
)

// AllocationView is an allocation with its resolved amount
type AllocationView struct {
	entity.Allocation
	EffectiveAmount decimal.Decimal `json:"effective_amount"`
}

// LineItemView is a line item together with its allocation totals
type LineItemView struct {
	*entity.LineItem
	Allocations   []AllocationView `json:"allocations"`
	Allocated     decimal.Decimal  `json:"allocated"`
	PercentageSum float64          `json:"percentage_sum"`
	Complete      bool             `json:"complete"`
}

// AllocationUpdate carries the fields to change on one allocation.
// Nil fields are left as they are. A kind change is applied before a value change.
type AllocationUpdate struct {
	Department *string                `json:"department"`
	Kind       *entity.AllocationKind `json:"kind"`
	Value      *float64               `json:"value"`
}

// AllocationService edits the department cost split of line items
type AllocationService interface {
	Create(ctx context.Context, item *entity.LineItem) (*LineItemView, error)
	Get(ctx context.Context, id int64) (*LineItemView, error)
	AddAllocation(ctx context.Context, id int64) (*LineItemView, error)
	RemoveAllocation(ctx context.Context, id int64, index int) (*LineItemView, error)
	UpdateAllocation(ctx context.Context, id int64, index int, update AllocationUpdate) (*LineItemView, error)
	Finalize(ctx context.Context, id int64) (*LineItemView, error)
}

type allocationServiceImpl struct {
	lineItemRepo port.LineItemRepository
	txManager    port.TransactionManager
	tolerance    decimal.Decimal
	required     map[entity.Category]bool
	logger       Logger
}

// NewAllocationService creates a new AllocationService.
// Items in a required category cannot be finalized until fully allocated.
func NewAllocationService(
	lineItemRepo port.LineItemRepository,
	txManager port.TransactionManager,
	tolerance float64,
	requiredCategories []entity.Category,
	logger Logger,
) AllocationService {
	required := make(map[entity.Category]bool, len(requiredCategories))
	for _, c := range requiredCategories {
		required[c] = true
	}

	return &allocationServiceImpl{
		lineItemRepo: lineItemRepo,
		txManager:    txManager,
		tolerance:    decimal.NewFromFloat(tolerance),
		required:     required,
		logger:       logger,
	}
}

// Create stores a new line item. Fixed allocations are stored as given. Percentage
// allocations are capped in the order given so their sum stays at or below 100.
// Missing IDs are filled in.
func (s *allocationServiceImpl) Create(ctx context.Context, item *entity.LineItem) (*LineItemView, error) {
	if !item.Category.IsValid() {
		return nil, entity.ErrInvalidCategory
	}
	if err := utils.ValidateAmount(item.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}
	item.Name = utils.SanitizeString(item.Name)
	item.Finalized = false

	allocations, err := s.prepareAllocations(item.Allocations)
	if err != nil {
		return nil, err
	}
	item.Allocations = allocations

	if err := s.lineItemRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create line item", "error", err, "name", item.Name)
		return nil, err
	}

	s.logger.Info("Line item created", "id", item.ID, "category", item.Category, "amount", item.Amount)
	return s.view(item), nil
}

// Get loads a line item with its allocation totals
func (s *allocationServiceImpl) Get(ctx context.Context, id int64) (*LineItemView, error) {
	item, err := s.lineItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(item), nil
}

// AddAllocation appends a department and re-equalizes the percentages
func (s *allocationServiceImpl) AddAllocation(ctx context.Context, id int64) (*LineItemView, error) {
	return s.edit(ctx, id, "add", func(list []entity.Allocation) ([]entity.Allocation, error) {
		return allocation.Add(list), nil
	})
}

// RemoveAllocation deletes the allocation at index and re-equalizes the percentages
func (s *allocationServiceImpl) RemoveAllocation(ctx context.Context, id int64, index int) (*LineItemView, error) {
	return s.edit(ctx, id, "remove", func(list []entity.Allocation) ([]entity.Allocation, error) {
		if index < 0 || index >= len(list) {
			return nil, entity.ErrAllocationNotFound
		}
		return allocation.Remove(list, index), nil
	})
}

// UpdateAllocation changes the department, kind or value of the allocation at index
func (s *allocationServiceImpl) UpdateAllocation(ctx context.Context, id int64, index int, update AllocationUpdate) (*LineItemView, error) {
	if update.Kind != nil && !update.Kind.IsValid() {
		return nil, entity.ErrInvalidAllocationKind
	}

	return s.edit(ctx, id, "update", func(list []entity.Allocation) ([]entity.Allocation, error) {
		if index < 0 || index >= len(list) {
			return nil, entity.ErrAllocationNotFound
		}

		if update.Department != nil {
			list = allocation.SetDepartment(list, index, utils.SanitizeString(*update.Department))
		}
		if update.Kind != nil && *update.Kind != list[index].Kind {
			list = allocation.SetKind(list, index, *update.Kind)
		}
		if update.Value != nil {
			list = allocation.UpdateValue(list, index, *update.Value)
		}
		return list, nil
	})
}

// Finalize marks the line item as finalized. Items in a required category
// must be fully allocated first.
func (s *allocationServiceImpl) Finalize(ctx context.Context, id int64) (*LineItemView, error) {
	var finalized *entity.LineItem

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		item, err := s.lineItemRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if item.Finalized {
			return entity.ErrLineItemFinalized
		}

		if s.required[item.Category] && !allocation.IsCompleteWithin(item.Allocations, item.Amount, s.tolerance) {
			allocated := allocation.Allocated(item.Allocations, item.Amount)
			return fmt.Errorf("%w: allocated %s of %s",
				entity.ErrAllocationIncomplete, allocated.StringFixed(2), decimal.NewFromFloat(item.Amount).StringFixed(2))
		}

		if err := s.lineItemRepo.MarkFinalized(txCtx, id); err != nil {
			return fmt.Errorf("mark finalized: %w", err)
		}

		item.Finalized = true
		finalized = item
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to finalize line item", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Line item finalized", "id", id)
	return s.view(finalized), nil
}

// edit applies fn to the stored allocation list and saves the result in one transaction
func (s *allocationServiceImpl) edit(
	ctx context.Context,
	id int64,
	action string,
	fn func(list []entity.Allocation) ([]entity.Allocation, error),
) (*LineItemView, error) {
	var edited *entity.LineItem

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		item, err := s.lineItemRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if item.Finalized {
			return entity.ErrLineItemFinalized
		}

		list, err := fn(item.Allocations)
		if err != nil {
			return err
		}

		if err := s.lineItemRepo.ReplaceAllocations(txCtx, id, list); err != nil {
			return fmt.Errorf("replace allocations: %w", err)
		}

		item.Allocations = list
		edited = item
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to edit allocations", "error", err, "id", id, "action", action)
		return nil, err
	}

	s.logger.Info("Allocations updated", "id", id, "action", action, "count", len(edited.Allocations))
	return s.view(edited), nil
}

func (s *allocationServiceImpl) prepareAllocations(list []entity.Allocation) ([]entity.Allocation, error) {
	out := make([]entity.Allocation, 0, len(list))
	for _, a := range list {
		if !a.Kind.IsValid() {
			return nil, entity.ErrInvalidAllocationKind
		}
		if a.Value < 0 {
			return nil, entity.ErrInvalidAmount
		}
		if a.ID == "" {
			a.ID = allocation.NewID()
		}
		a.Department = utils.SanitizeString(a.Department)

		value := a.Value
		a.Value = 0
		out = allocation.UpdateValue(append(out, a), len(out), value)
	}
	return out, nil
}

func (s *allocationServiceImpl) view(item *entity.LineItem) *LineItemView {
	views := make([]AllocationView, 0, len(item.Allocations))
	for _, a := range item.Allocations {
		views = append(views, AllocationView{
			Allocation:      a,
			EffectiveAmount: allocation.EffectiveAmount(a, item.Amount),
		})
	}

	return &LineItemView{
		LineItem:      item,
		Allocations:   views,
		Allocated:     allocation.Allocated(item.Allocations, item.Amount),
		PercentageSum: allocation.PercentageSum(item.Allocations),
		Complete:      allocation.IsCompleteWithin(item.Allocations, item.Amount, s.tolerance),
	}
}

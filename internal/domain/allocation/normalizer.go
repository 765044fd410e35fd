// Package allocation keeps a line item's department cost split consistent while it is edited.
//
// Every operation returns a new slice and leaves its input untouched. Nothing here fails:
// IsComplete is the only signal, and callers check it when finalizing, not while drafting.
package allocation

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// FullShare is the percentage that percentage-kind allocations add up to
const FullShare = 100

// DefaultTolerance is how far allocated and total amounts may differ, in currency units
var DefaultTolerance = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(FullShare)

// newID generates allocation identifiers
var newID = uuid.NewString

// NewID returns a fresh allocation identifier
func NewID() string {
	return newID()
}

// Add appends an unassigned percentage allocation and re-equalizes the percentages
func Add(list []entity.Allocation) []entity.Allocation {
	out := clone(list)
	out = append(out, entity.Allocation{
		ID:    newID(),
		Kind:  entity.AllocationKindPercentage,
		Value: 0,
	})
	return equalize(out)
}

// Remove deletes the allocation at index and re-equalizes the remaining percentages.
// An out-of-range index returns an unchanged copy.
func Remove(list []entity.Allocation, index int) []entity.Allocation {
	if index < 0 || index >= len(list) {
		return clone(list)
	}

	out := make([]entity.Allocation, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return equalize(out)
}

// UpdateValue sets the value of the allocation at index.
// A percentage is capped so that all percentage allocations stay at or below 100; only
// the edited entry is adjusted, and the headroom is computed in decimal so fractional shares
// land exactly on 100. A fixed amount is stored as given. Negative values floor at 0.
func UpdateValue(list []entity.Allocation, index int, newValue float64) []entity.Allocation {
	out := clone(list)
	if index < 0 || index >= len(out) {
		return out
	}

	value := math.Max(newValue, 0)
	if out[index].Kind != entity.AllocationKindPercentage {
		out[index].Value = value
		return out
	}

	headroom := hundred.Sub(percentageTotal(out, index))
	if decimal.NewFromFloat(value).GreaterThan(headroom) {
		value = math.Max(headroom.InexactFloat64(), 0)
	}

	out[index].Value = value
	for PercentageSum(out) > FullShare && out[index].Value > 0 {
		out[index].Value = math.Nextafter(out[index].Value, 0)
	}
	return out
}

// SetDepartment assigns the cost-bearing department of the allocation at index
func SetDepartment(list []entity.Allocation, index int, department string) []entity.Allocation {
	out := clone(list)
	if index >= 0 && index < len(out) {
		out[index].Department = department
	}
	return out
}

// SetKind switches the allocation at index between percentage and fixed.
// The switched entry starts from 0 and the percentage entries are re-equalized.
func SetKind(list []entity.Allocation, index int, kind entity.AllocationKind) []entity.Allocation {
	out := clone(list)
	if index < 0 || index >= len(out) || !kind.IsValid() || out[index].Kind == kind {
		return out
	}

	out[index].Kind = kind
	out[index].Value = 0
	return equalize(out)
}

// Equalize spreads 100% evenly over the percentage allocations
func Equalize(list []entity.Allocation) []entity.Allocation {
	return equalize(clone(list))
}

// equalize works in place. Every percentage entry gets round(100/N) and the last one takes
// the remainder so the sum is exactly 100. Fixed entries keep their absolute values.
func equalize(list []entity.Allocation) []entity.Allocation {
	positions := make([]int, 0, len(list))
	for i, a := range list {
		if a.Kind == entity.AllocationKindPercentage {
			positions = append(positions, i)
		}
	}

	n := len(positions)
	if n == 0 {
		return list
	}

	share := math.Round(FullShare / float64(n))
	if share*float64(n-1) > FullShare {
		// Rounding up would push the last share negative (N >= 35)
		share = math.Floor(FullShare / float64(n))
	}

	for _, pos := range positions[:n-1] {
		list[pos].Value = share
	}
	list[positions[n-1]].Value = FullShare - share*float64(n-1)
	return list
}

// PercentageSum adds up the values of the percentage allocations
func PercentageSum(list []entity.Allocation) float64 {
	return percentageTotal(list, -1).InexactFloat64()
}

// percentageTotal sums the percentage allocations in decimal, leaving out the entry at skip
func percentageTotal(list []entity.Allocation, skip int) decimal.Decimal {
	sum := decimal.Zero
	for i, a := range list {
		if i != skip && a.Kind == entity.AllocationKindPercentage {
			sum = sum.Add(decimal.NewFromFloat(a.Value))
		}
	}
	return sum
}

// EffectiveAmount is the share of total an allocation carries
func EffectiveAmount(a entity.Allocation, total float64) decimal.Decimal {
	value := decimal.NewFromFloat(a.Value)
	if a.Kind == entity.AllocationKindFixed {
		return value
	}
	return decimal.NewFromFloat(total).Mul(value).Div(hundred)
}

// Allocated sums the effective amounts of all allocations
func Allocated(list []entity.Allocation, total float64) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range list {
		sum = sum.Add(EffectiveAmount(a, total))
	}
	return sum
}

// IsComplete reports whether the allocations cover total within DefaultTolerance
func IsComplete(list []entity.Allocation, total float64) bool {
	return IsCompleteWithin(list, total, DefaultTolerance)
}

// IsCompleteWithin reports whether the allocations cover total within tolerance
func IsCompleteWithin(list []entity.Allocation, total float64, tolerance decimal.Decimal) bool {
	diff := Allocated(list, total).Sub(decimal.NewFromFloat(total)).Abs()
	return diff.LessThanOrEqual(tolerance)
}

func clone(list []entity.Allocation) []entity.Allocation {
	out := make([]entity.Allocation, len(list))
	copy(out, list)
	return out
}

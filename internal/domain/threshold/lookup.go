package threshold

import "github.com/garyjia/contract-approval/internal/domain/entity"

// Lookup returns the bracket containing amount
func Lookup(brackets []entity.Bracket, amount int64) (entity.Bracket, bool) {
	for _, b := range brackets {
		if b.Contains(amount) {
			return b, true
		}
	}
	return entity.Bracket{}, false
}

// RequiredTypeAgreements returns the type rules that apply to category, in input order.
// These hold for every amount and are reported next to the bracket, never merged into it.
func RequiredTypeAgreements(rules []entity.TypeRule, category entity.Category) []entity.TypeRule {
	matched := []entity.TypeRule{}
	for _, rule := range rules {
		if rule.ContractType == category {
			matched = append(matched, rule)
		}
	}
	return matched
}

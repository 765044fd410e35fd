package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ValidateAmount validates a contract or line item amount
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative: %.2f", amount)
	}
	return nil
}

// ValidateBounds validates an amount rule's bounds. A max of 0 means no upper limit.
func ValidateBounds(minAmount, maxAmount int64) error {
	if minAmount < 0 || maxAmount < 0 {
		return fmt.Errorf("range bounds must not be negative: %d-%d", minAmount, maxAmount)
	}
	if minAmount == math.MaxInt64 {
		return fmt.Errorf("range lower bound too large: %d", minAmount)
	}
	return nil
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}

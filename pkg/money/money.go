package money

import (
	"fmt"
	"math"
	"strings"
)

// All monetary values in this codebase are stored and summed as integer
// cents (minor units). Floating point only appears at the API boundary.

// ToCents converts a major-unit amount (e.g. 19.90 from a JSON payload)
// to integer cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a major-unit float for display.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// FormatBRL renders cents as a Brazilian Real string, e.g. -530 -> "R$ -5,30".
// Used in ledger descriptions and reports; not locale-configurable.
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("R$ %s%s,%02d", sign, strings.Join(groups, "."), frac)
}

package payment

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Plain digits with an optional fraction. Exponents and signs are not
// register input.
var amountPattern = regexp.MustCompile(`^(\d{1,15}(\.\d*)?|\.\d+)$`)

// ParseAmount reads free-form register input. Comma and dot are both accepted
// as decimal separator and the result is rounded to cents. Empty, unparseable
// or negative input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if !amountPattern.MatchString(text) {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return value.Round(2)
}

// FormatAmount renders a value the way the text buffer shows it after blur.
func FormatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}

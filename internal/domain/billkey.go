package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BuildBillKey derives the canonical uniqueness key for a bill: the trimmed,
// lowercased bill number joined with the amount fixed to two decimals.
// It returns "" when the bill number is empty after normalization or the
// amount is not positive; such bills never enter the index.
func BuildBillKey(billNo string, amount decimal.Decimal) string {
	no := strings.ToLower(strings.TrimSpace(billNo))
	if no == "" || !amount.IsPositive() {
		return ""
	}
	return no + "_" + amount.StringFixed(2)
}

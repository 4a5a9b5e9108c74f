package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"billdex/internal/domain"
)

func TestBuildBillKey(t *testing.T) {
	amount := decimal.NewFromFloat(150.5)

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		a := domain.BuildBillKey("INV-001", amount)
		b := domain.BuildBillKey("  inv-001  ", amount)

		assert.Equal(t, "inv-001_150.50", a)
		assert.Equal(t, a, b)
	})

	t.Run("amount fixed to two decimals", func(t *testing.T) {
		assert.Equal(t, "42_100.00", domain.BuildBillKey("42", decimal.NewFromInt(100)))
		assert.Equal(t, "42_100.10", domain.BuildBillKey("42", decimal.NewFromFloat(100.1)))
	})

	t.Run("no key without a bill number", func(t *testing.T) {
		assert.Empty(t, domain.BuildBillKey("", amount))
		assert.Empty(t, domain.BuildBillKey("   ", amount))
	})

	t.Run("no key without a positive amount", func(t *testing.T) {
		assert.Empty(t, domain.BuildBillKey("INV-001", decimal.Zero))
		assert.Empty(t, domain.BuildBillKey("INV-001", decimal.NewFromInt(-5)))
	})
}

func TestParsedBillKey(t *testing.T) {
	no := "inv-9"
	amount := decimal.NewFromInt(20)

	assert.Equal(t, "inv-9_20.00", domain.ParsedBill{BillNo: &no, Amount: &amount}.Key())
	assert.Empty(t, domain.ParsedBill{BillNo: &no}.Key())
	assert.Empty(t, domain.ParsedBill{Amount: &amount}.Key())
}

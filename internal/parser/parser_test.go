package parser_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdex/internal/domain"
	"billdex/internal/parser"
)

func TestExtractTotalAmount(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "grand total beats subtotal",
			text:  "Subtotal 1200.00\nTax 300.00\nGrand Total 1500.00",
			want:  "1500",
			found: true,
		},
		{
			name:  "plain total keyword",
			text:  "Item A 40.00\nItem B 60.00\nTotal: 100.00",
			want:  "100",
			found: true,
		},
		{
			name:  "spaced sub total does not win over total",
			text:  "Sub Total 900.00\nTotal 1000.00",
			want:  "1000",
			found: true,
		},
		{
			name:  "currency marker without keyword",
			text:  "Thanks for shopping\nRs. 450.50\nVisit again",
			want:  "450.5",
			found: true,
		},
		{
			name:  "comma grouped amount",
			text:  "TOTAL AMOUNT 1,23,456.78",
			want:  "123456.78",
			found: true,
		},
		{
			name:  "bare number fallback picks the larger",
			text:  "5 items 2 discounts 349.00",
			want:  "349",
			found: true,
		},
		{
			name:  "year alone is not an amount",
			text:  "Annual report 2024",
			found: false,
		},
		{
			name:  "no digits at all",
			text:  "thank you come again",
			found: false,
		},
		{
			name:  "empty text",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ExtractTotalAmount(tt.text)
			require.Equal(t, tt.found, ok)
			if tt.found {
				want, err := decimal.NewFromString(tt.want)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "want %s, got %s", want, got)
			}
		})
	}
}

func TestExtractBillNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "keyword anchored",
			text: "Bill No: 4521\nTotal 300",
			want: "4521",
		},
		{
			name: "invoice with structured id",
			text: "Invoice Number INV/2024-001\nAmount Due 99.00",
			want: "INV/2024-001",
		},
		{
			name: "spaced out header letters",
			text: "B I L L N O . 152\nTotal 75.00",
			want: "152",
		},
		{
			name: "hash marker",
			text: "Receipt # 88321",
			want: "88321",
		},
		{
			name: "phone number rejected",
			text: "Bill No: 9876543210",
			want: "",
		},
		{
			name: "date rejected",
			text: "Bill No: 12/05/2024",
			want: "",
		},
		{
			name: "tax registration id rejected",
			text: "Bill No: 22AAAAA0000A1Z5",
			want: "",
		},
		{
			name: "blacklisted word rejected",
			text: "Bill No total due later",
			want: "",
		},
		{
			name: "single character rejected",
			text: "Bill No: 7",
			want: "",
		},
		{
			name: "letters only rejected",
			text: "Bill No: PENDING",
			want: "",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.ExtractBillNumber(tt.text))
		})
	}
}

func TestParsePage(t *testing.T) {
	t.Run("both fields found", func(t *testing.T) {
		bill := parser.ParsePage("Invoice No: A-1001\nGrand Total 250.00", 2)

		require.NotNil(t, bill.BillNo)
		require.NotNil(t, bill.Amount)
		assert.Equal(t, "A-1001", *bill.BillNo)
		assert.True(t, decimal.NewFromInt(250).Equal(*bill.Amount))
		assert.Equal(t, 2, bill.Page)
		assert.Equal(t, domain.ConfidenceHigh, bill.Confidence)
	})

	t.Run("amount only", func(t *testing.T) {
		bill := parser.ParsePage("Total 42.00", 1)

		assert.Nil(t, bill.BillNo)
		require.NotNil(t, bill.Amount)
		assert.Equal(t, domain.ConfidenceMedium, bill.Confidence)
	})

	t.Run("nothing found", func(t *testing.T) {
		bill := parser.ParsePage("illegible smudge", 1)

		assert.Nil(t, bill.BillNo)
		assert.Nil(t, bill.Amount)
		assert.Equal(t, domain.ConfidenceLow, bill.Confidence)
	})
}

// Package parser extracts bill numbers and total amounts from noisy OCR
// text using scored pattern heuristics. All functions are pure and safe for
// concurrent use.
package parser

import (
	"strings"

	"billdex/internal/domain"
)

// normalize collapses whitespace and rejoins letter sequences that OCR
// spaced out, so downstream patterns see "BILL NO. 152" instead of
// "B I L L  N O . 152".
func normalize(text string) string {
	collapsed := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return spacedLettersRe.ReplaceAllStringFunc(collapsed, func(m string) string {
		return strings.ReplaceAll(m, " ", "")
	})
}

// ParsePage runs both field extractors over one page of OCR text and
// assembles the result with a confidence grade.
func ParsePage(text string, page int) domain.ParsedBill {
	bill := domain.ParsedBill{Page: page}

	if no := ExtractBillNumber(text); no != "" {
		bill.BillNo = &no
	}
	if amount, ok := ExtractTotalAmount(text); ok {
		bill.Amount = &amount
	}

	bill.Confidence = domain.ConfidenceFor(bill.BillNo != nil, bill.Amount != nil)
	return bill
}

package parser

import "regexp"

// Candidate scores. Keyword-anchored matches dominate currency-adjacent ones,
// which dominate bare tokens; position in the text adds a smaller bonus so it
// can break ties between candidates of the same class but never promote a
// bare token over an anchored one.
const (
	scoreStrongKeyword = 120
	scoreKeyword       = 100
	scoreWeakKeyword   = 40
	scoreCurrency      = 50
	scoreBare          = 10
	positionBonus      = 20
)

const amountToken = `([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

var (
	// Amount anchors, strongest first. "Grand Total 1,500.00" style lines.
	strongTotalRe = regexp.MustCompile(`(?i)\b(?:grand\s+total|net\s+total|total\s+amount|amount\s+paid|amount\s+due|net\s+payable|amount\s+payable)\b[^0-9]{0,24}` + amountToken)
	totalRe       = regexp.MustCompile(`(?i)\btotal\b[^0-9]{0,24}` + amountToken)
	subTotalRe    = regexp.MustCompile(`(?i)\bsub[\s\-]*total\b[^0-9]{0,24}` + amountToken)
	currencyRe    = regexp.MustCompile(`(?i)(?:rs\.?|inr|₹|\$)\s*` + amountToken)
	bareAmountRe  = regexp.MustCompile(`\b` + amountToken + `\b`)

	// Bill number anchors. The token may carry slashes, dashes and hashes
	// as real invoice numbers do (INV/2024-001).
	billNoToken  = `([A-Za-z0-9][A-Za-z0-9/\-#]*)`
	billKeyedRe  = regexp.MustCompile(`(?i)\b(?:bill|invoice|inv|receipt|voucher|order)[\s.]*(?:number|num|no|id)?[\s.:#\-]*` + billNoToken)
	hashNumberRe = regexp.MustCompile(`#\s*` + billNoToken)
	bareTokenRe  = regexp.MustCompile(`\b([A-Za-z0-9/\-]+)\b`)

	// OCR on low-quality scans frequently spaces out header letters
	// ("B I L L N O . 152"). Collapse runs of single letters before
	// keyword matching.
	spacedLettersRe = regexp.MustCompile(`\b(?:[A-Za-z] ){2,}[A-Za-z]\b`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// Exclusion filters for bill number candidates.
	phoneRe  = regexp.MustCompile(`^[0-9]{10}$`)
	dateRe   = regexp.MustCompile(`^(?:[0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4}|[0-9]{4}[/\-.][0-9]{1,2}[/\-.][0-9]{1,2})$`)
	taxIDRe  = regexp.MustCompile(`^[0-9]{2}[A-Za-z]{5}[0-9]{4}[A-Za-z][0-9A-Za-z][Zz][0-9A-Za-z]$`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	yearLike = regexp.MustCompile(`^(?:19|20)[0-9]{2}$`)
)

// blacklistedTokens are words OCR text offers up next to bill anchors that
// are never bill numbers themselves.
var blacklistedTokens = map[string]struct{}{
	"NO":      {},
	"IS":      {},
	"RECEIPT": {},
	"BILL":    {},
	"TOTAL":   {},
}

package parser

import (
	"regexp"
	"strings"
)

type billNoCandidate struct {
	token string
	score int
}

// ExtractBillNumber finds the most likely bill or invoice number in a page
// of OCR text. Returns "" when no plausible candidate survives filtering.
func ExtractBillNumber(text string) string {
	normalized := normalize(text)
	if normalized == "" {
		return ""
	}

	var candidates []billNoCandidate
	add := func(token string, base, offset int) {
		token = cleanBillToken(token)
		if !isValidBillNumber(token) {
			return
		}
		score := base
		if relativePosition(offset, len(normalized)) <= 0.4 {
			score += positionBonus
		}
		candidates = append(candidates, billNoCandidate{token: token, score: score})
	}

	for _, m := range billKeyedRe.FindAllStringSubmatchIndex(normalized, -1) {
		add(normalized[m[2]:m[3]], scoreKeyword, m[0])
	}
	for _, m := range hashNumberRe.FindAllStringSubmatchIndex(normalized, -1) {
		add(normalized[m[2]:m[3]], scoreCurrency, m[0])
	}

	// Bare tokens are the weakest candidates and the most confusable with
	// money: skip any that sit in an amount context so "Total 42.00" never
	// yields bill number "42".
	amountRanges := amountContextRanges(normalized)
	for _, m := range bareTokenRe.FindAllStringSubmatchIndex(normalized, -1) {
		if insideAny(m[2], amountRanges) || decimalAdjacent(normalized, m[2], m[3]) {
			continue
		}
		add(normalized[m[2]:m[3]], scoreBare, m[0])
	}

	best := ""
	bestScore := -1
	for _, c := range candidates {
		if c.score > bestScore || (c.score == bestScore && betterToken(c.token, best)) {
			best = c.token
			bestScore = c.score
		}
	}
	return best
}

// amountContextRanges collects the spans of every anchored or
// currency-marked amount in the text.
func amountContextRanges(text string) [][]int {
	var ranges [][]int
	for _, re := range []*regexp.Regexp{strongTotalRe, totalRe, subTotalRe, currencyRe} {
		ranges = append(ranges, re.FindAllStringIndex(text, -1)...)
	}
	return ranges
}

// decimalAdjacent reports whether the token at [start,end) borders a decimal
// fraction, which marks it as a piece of a money value.
func decimalAdjacent(text string, start, end int) bool {
	if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
		return true
	}
	if start >= 2 && text[start-1] == '.' && isDigit(text[start-2]) {
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// cleanBillToken strips punctuation OCR tends to glue onto the token edges.
func cleanBillToken(token string) string {
	return strings.Trim(token, ".:,-#/ ")
}

func isValidBillNumber(token string) bool {
	if len(token) < 2 {
		return false
	}
	if !digitRe.MatchString(token) {
		return false
	}
	if _, banned := blacklistedTokens[strings.ToUpper(token)]; banned {
		return false
	}
	if phoneRe.MatchString(token) {
		return false
	}
	if dateRe.MatchString(token) {
		return false
	}
	if taxIDRe.MatchString(token) {
		return false
	}
	return true
}

// betterToken prefers longer tokens, then those with more alphanumeric
// characters, so "INV-2024-001" beats a stray "12".
func betterToken(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return countAlnum(a) > countAlnum(b)
}

func countAlnum(s string) int {
	n := 0
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			n++
		}
	}
	return n
}

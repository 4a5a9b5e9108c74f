package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

type amountCandidate struct {
	value decimal.Decimal
	score int
}

// ExtractTotalAmount finds the most likely total amount in a page of OCR
// text. The second return is false when no plausible amount exists.
func ExtractTotalAmount(text string) (decimal.Decimal, bool) {
	normalized := normalize(text)
	if normalized == "" {
		return decimal.Zero, false
	}

	var candidates []amountCandidate
	collect := func(matches [][]int, base int, late bool) {
		for _, m := range matches {
			raw := normalized[m[2]:m[3]]
			value, ok := parseAmount(raw)
			if !ok {
				continue
			}
			score := base
			if late && relativePosition(m[0], len(normalized)) >= 0.6 {
				score += positionBonus
			}
			candidates = append(candidates, amountCandidate{value: value, score: score})
		}
	}

	subRanges := subTotalRe.FindAllStringIndex(normalized, -1)

	collect(strongTotalRe.FindAllStringSubmatchIndex(normalized, -1), scoreStrongKeyword, true)
	for _, m := range totalRe.FindAllStringSubmatchIndex(normalized, -1) {
		if insideAny(m[0], subRanges) {
			continue
		}
		collect([][]int{m}, scoreKeyword, true)
	}
	collect(subTotalRe.FindAllStringSubmatchIndex(normalized, -1), scoreWeakKeyword, false)
	collect(currencyRe.FindAllStringSubmatchIndex(normalized, -1), scoreCurrency, true)

	for _, m := range bareAmountRe.FindAllStringSubmatchIndex(normalized, -1) {
		raw := normalized[m[2]:m[3]]
		if looksLikeYear(raw) || looksLikePhone(raw) {
			continue
		}
		collect([][]int{m}, scoreBare, true)
	}

	best, ok := pickAmount(candidates)
	if !ok {
		return decimal.Zero, false
	}
	return best, true
}

func pickAmount(candidates []amountCandidate) (decimal.Decimal, bool) {
	var best amountCandidate
	found := false
	for _, c := range candidates {
		switch {
		case !found,
			c.score > best.score,
			c.score == best.score && c.value.GreaterThan(best.value):
			best = c
			found = true
		}
	}
	return best.value, found
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

func looksLikeYear(raw string) bool {
	return yearLike.MatchString(raw)
}

func looksLikePhone(raw string) bool {
	return phoneRe.MatchString(strings.ReplaceAll(raw, ",", ""))
}

func insideAny(pos int, ranges [][]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

func relativePosition(offset, length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(offset) / float64(length)
}

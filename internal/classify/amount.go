package classify

import (
	"regexp"
	"strconv"
)

// amountExtractPattern captures the first numeric token, with an optional
// decimal part of up to two places and an optional currency marker prefix.
var amountExtractPattern = regexp.MustCompile(`(?i)(?:(?:rs\.?|inr|₹|\$)\s*)?([0-9]+(?:\.[0-9]{1,2})?)`)

// ExtractAmount returns the first spend amount found in text, or 0 when
// none is present.
func ExtractAmount(text string) float64 {
	match := amountExtractPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return amount
}

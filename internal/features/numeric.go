package features

import (
	"math"
	"strconv"
	"strings"
)

// ParseInstalls turns a store install label like "1,000,000+" into a number.
// Anything that is not all digits once '+' and ',' are removed becomes 0,
// including labels padded with whitespace.
func ParseInstalls(value string) int64 {
	cleaned := strings.NewReplacer("+", "", ",", "").Replace(value)
	if cleaned == "" {
		return 0
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParsePrice turns "$4.99" into 4.99. Values without a leading '$' ("Free",
// "0") and malformed amounts become 0.
func ParsePrice(value string) float64 {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "$") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, "$", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCount reads an integer count such as a review total, tolerating
// thousands separators. Malformed input becomes 0.
func ParseCount(value string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

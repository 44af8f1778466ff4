package validate

import (
	"strconv"
	"strings"
)

// Skip is the token that skips an optional conversation step.
const Skip = "-"

// ProductName trims and requires non-empty input.
func ProductName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Price parses a positive integer amount in rubles.
func Price(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Specs splits comma-separated tags, trimming each and dropping empties.
// The skip token yields no tags.
func Specs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == Skip {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ID parses a positive integer identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

var paymentMethods = map[string]bool{"cash": true, "card": true, "sbp": true}

// PaymentMethod normalizes the order payment tag, defaulting to cash.
func PaymentMethod(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if paymentMethods[s] {
		return s
	}
	return "cash"
}

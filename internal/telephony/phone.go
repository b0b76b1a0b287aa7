// Package telephony places AI-driven outbound calls through a
// conversational-telephony provider, enforcing a per-destination cooldown
// and normalizing results into the shape the pipeline relies on.
package telephony

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a free-text phone number to E.164-like form:
// non-digits stripped, a US country code prepended to bare 10-digit
// numbers, "+" prefix. Numbers with fewer than 10 digits are rejected.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	if len(digits) < 10 {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}
	if len(digits) == 10 && !strings.HasPrefix(digits, "1") {
		digits = "1" + digits
	}
	return "+" + digits, nil
}

// Package phone canonicalizes phone numbers into the messaging channel
// address form and produces equivalent textual representations for fuzzy
// matching against the contact directory.
package phone

import (
	"strings"

	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// ChannelTag prefixes a channel address for the WhatsApp transport.
const ChannelTag = "whatsapp:"

const (
	minDigits = 10
	maxDigits = 15
)

// Digits strips the channel tag and every non-digit character from raw.
func Digits(raw string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), ChannelTag)
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether raw is acceptable for outbound use.
func Valid(raw string) bool {
	n := len(Digits(raw))
	return n >= minDigits && n <= maxDigits
}

// Candidates returns the ordered set of representations used to match raw
// against stored contact phones: full digits, digits with the leading
// two-digit country code stripped, the last ten digits, and the "+" and
// channel-tagged forms.
func Candidates(raw string) []string {
	digits := Digits(raw)
	if digits == "" {
		return nil
	}

	candidates := []string{digits}
	if len(digits) > 2 {
		candidates = appendUnique(candidates, digits[2:])
	}
	if len(digits) > 10 {
		candidates = appendUnique(candidates, digits[len(digits)-10:])
	}
	candidates = appendUnique(candidates, "+"+digits)
	candidates = appendUnique(candidates, ChannelTag+"+"+digits)
	return candidates
}

// FormatOutbound renders raw as a channel address. A bare ten-digit number is
// assumed to be national and gets the default country code prepended.
func FormatOutbound(raw, defaultCountryCode string) (string, error) {
	digits := Digits(raw)
	if len(digits) < minDigits || len(digits) > maxDigits {
		return "", util.NewValidationError("phone number must have 10 to 15 digits", map[string]any{"phone": raw})
	}
	if len(digits) == minDigits && !strings.HasPrefix(digits, defaultCountryCode) {
		digits = defaultCountryCode + digits
	}
	return ChannelTag + "+" + digits, nil
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

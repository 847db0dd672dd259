package checkout

import "strings"

// Input formatters for the payment form. All are pure and idempotent:
// re-applying one to its own output returns the same string.

// FormatCardNumber groups the digits of a card number into 4-digit
// blocks separated by spaces, capped at 16 digits.
func FormatCardNumber(input string) string {
	digits := digitsOnly(input, 16)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry normalizes an expiry entry to MM/YY, inserting the
// slash once a third digit appears.
func FormatExpiry(input string) string {
	digits := digitsOnly(input, 4)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps only digits and truncates to 4 characters.
func FormatCVV(input string) string {
	return digitsOnly(input, 4)
}

func digitsOnly(input string, max int) string {
	var b strings.Builder
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == max {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

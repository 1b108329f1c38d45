package service

import "strings"

// NormalizeEmail returns the comparison key for an email address.
// An empty result means the address has no key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps the digits of a phone number. A "+" ahead of the first digit is
// part of the key, so "+1 555 123 4567" and "1 555 123 4567" are different numbers.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var (
		b    strings.Builder
		plus bool
	)
	b.Grow(len(phone))
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			plus = true
		}
	}
	if b.Len() == 0 {
		return ""
	}

	if plus {
		return "+" + b.String()
	}
	return b.String()
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

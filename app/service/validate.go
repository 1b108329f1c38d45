package service

import (
	"regexp"
	"strings"
)

const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgPhoneRequired = "Phone number is required"
	MsgInvalidEmail  = "Invalid email format"
	MsgInvalidPhone  = "Invalid phone number format (10-15 digits required)"

	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// Word characters include non-ASCII letters and digits.
var emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

func ValidatePhone(phone string) bool {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return false
	}
	digits := countDigits(normalized)
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// ValidateSubmission collects every problem with a submission instead of stopping at the
// first one. Format checks only run for fields that are present.
func ValidateSubmission(name, email, phone string) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	if strings.TrimSpace(email) == "" {
		errs = append(errs, MsgEmailRequired)
	}
	if strings.TrimSpace(phone) == "" {
		errs = append(errs, MsgPhoneRequired)
	}

	if strings.TrimSpace(email) != "" && !ValidateEmail(email) {
		errs = append(errs, MsgInvalidEmail)
	}
	if strings.TrimSpace(phone) != "" && !ValidatePhone(phone) {
		errs = append(errs, MsgInvalidPhone)
	}

	return errs
}

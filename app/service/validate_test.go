package service_test

import (
	"reflect"
	"testing"

	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":                true,
		"first.last@sub.host.io": true,
		"user-name@my-host.org":  true,
		"  padded@host.com  ":    true,
		"josé@example.com":       true,
		"müller@bücher.de":       true,
		"not-an-email":           false,
		"":                       false,
		"missing@tld":            false,
		"@host.com":              false,
		"user@.":                 false,
		"two@@host.com":          false,
		"space in@host.com":      false,
	}

	for in, want := range cases {
		if got := service.ValidateEmail(in); got != want {
			t.Fatalf("ValidateEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := map[string]bool{
		"123-456-7890":        true,
		"+1 (555) 123-4567":   true,
		"123456789012345":     true,
		"1234567890123456":    false,
		"12345":               false,
		"123456789":           false,
		"":                    false,
		"phone: 555 123 4567": true,
	}

	for in, want := range cases {
		if got := service.ValidatePhone(in); got != want {
			t.Fatalf("ValidatePhone(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateSubmission_MissingFields(t *testing.T) {
	got := service.ValidateSubmission("", "", "")
	want := []string{service.MsgNameRequired, service.MsgEmailRequired, service.MsgPhoneRequired}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected errors: %#v", got)
	}
}

func TestValidateSubmission_CollectsFormatErrors(t *testing.T) {
	got := service.ValidateSubmission("", "bad-email", "12345")
	want := []string{service.MsgNameRequired, service.MsgInvalidEmail, service.MsgInvalidPhone}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected errors: %#v", got)
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	if got := service.ValidateSubmission("Ada", "ada@example.com", "555-123-4567"); len(got) != 0 {
		t.Fatalf("expected no errors, got %#v", got)
	}
}

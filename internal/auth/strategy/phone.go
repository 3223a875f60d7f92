package strategy

import (
	"context"
	"regexp"
	"strings"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// e164Pattern is the normalized phone shape the provider accepts: leading
// plus, then 2-15 digits with a non-zero first digit.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// Phone signs users up or in by phone number, normalized to E.164 before
// any network call.
type Phone struct {
	flow identifierFlow
}

func NewPhone(identity provider.Identity, runner *FlowRunner) *Phone {
	return &Phone{flow: identifierFlow{
		kind:     provider.KindPhone,
		identity: identity,
		runner:   runner,
	}}
}

func (s *Phone) Name() string { return string(provider.KindPhone) }

func (s *Phone) SignUpOrLogIn(ctx context.Context, phone string) (*models.AuthState, error) {
	normalized, err := FormatPhoneNumber(phone)
	if err != nil {
		return nil, err
	}
	return s.flow.run(ctx, provider.Identifier{Phone: normalized}, normalized)
}

// FormatPhoneNumber normalizes common punctuation (spaces, dots, dashes,
// parentheses) out of a phone number, prepends the plus when the remainder
// is all digits, and validates the E.164 shape. Inputs that cannot be
// normalized fail with a validation error before any network call.
func FormatPhoneNumber(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", dErrors.New(dErrors.CodeValidation, "phone number is required")
	}
	if !strings.HasPrefix(cleaned, "+") && allDigits(cleaned) {
		cleaned = "+" + cleaned
	}
	if !e164Pattern.MatchString(cleaned) {
		return "", dErrors.New(dErrors.CodeValidation, "phone number is not a valid E.164 number")
	}
	return cleaned, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

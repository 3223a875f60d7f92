package strategy

import (
	"context"
	"strings"

	"github.com/asaskevich/govalidator"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// Email signs users up or in by email address.
type Email struct {
	flow identifierFlow
}

func NewEmail(identity provider.Identity, runner *FlowRunner) *Email {
	return &Email{flow: identifierFlow{
		kind:     provider.KindEmail,
		identity: identity,
		runner:   runner,
	}}
}

func (s *Email) Name() string { return string(provider.KindEmail) }

func (s *Email) SignUpOrLogIn(ctx context.Context, email string) (*models.AuthState, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(normalized) {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	return s.flow.run(ctx, provider.Identifier{Email: normalized}, normalized)
}

package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitauth/internal/auth/models"
	dErrors "remitauth/pkg/domain-errors"
)

func TestEmail_RejectsInvalidAddresses(t *testing.T) {
	r := newRig()
	email := NewEmail(r.identity, r.runner)

	for _, input := range []string{"", "   ", "nope", "user@", "@example.com", "user @example.com"} {
		t.Run("invalid: "+input, func(t *testing.T) {
			_, err := email.SignUpOrLogIn(context.Background(), input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, "invalid email address", err.Error())
		})
	}
	assert.Zero(t, r.identity.Calls("SignUpOrLogIn"))
}

func TestEmail_NormalizesBeforeProviderCall(t *testing.T) {
	r := newRig()
	email := NewEmail(r.identity, r.runner)

	state, err := email.SignUpOrLogIn(context.Background(), "  New.User@Example.COM  ")
	require.NoError(t, err)
	assert.Equal(t, models.StateNeedsVerification, state.Kind)
	assert.Equal(t, "new.user@example.com", state.Identifier)
}

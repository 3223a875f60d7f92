package strategy

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

func TestIdentifierFlow_NewUserNeedsVerification(t *testing.T) {
	r := newRig()
	email := NewEmail(r.identity, r.runner)

	state, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.StateNeedsVerification, state.Kind)
	assert.Equal(t, "new@example.com", state.Identifier)
	assert.Empty(t, r.browser.Opened(), "code-entry verification must not open a browser")
	assert.Zero(t, r.importer.importCalls())
}

func TestIdentifierFlow_OneClickLogin(t *testing.T) {
	r := newRig()
	r.identity.ScriptOneClick("new@example.com", &models.VerifyStage{
		LoginURL:  "https://auth.example/one-click?flow=signup",
		NextStage: models.StageLogin,
	})
	email := NewEmail(r.identity, r.runner)

	state, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.StateAuthenticated, state.Kind)
	assert.Equal(t, "backend-token", state.BackendSessionToken)
	require.NotNil(t, state.User)

	opened := r.browser.Opened()
	require.Len(t, opened, 1)
	parsed, err := url.Parse(opened[0])
	require.NoError(t, err)
	assert.Equal(t, "true", parsed.Query().Get("nativeCallback"))
	assert.Equal(t, "remit", parsed.Query().Get("callbackScheme"))
	assert.Equal(t, "signup", parsed.Query().Get("flow"), "existing query parameters survive")

	assert.Equal(t, 1, r.identity.Calls("WaitForLogin"))
	assert.Equal(t, 1, r.identity.Calls("TouchSession"))
	assert.Equal(t, 1, r.importer.importCalls())
}

func TestIdentifierFlow_OneClickSignup(t *testing.T) {
	t.Run("password signup waits for wallet creation", func(t *testing.T) {
		r := newRig()
		r.identity.ScriptOneClick("new@example.com", &models.VerifyStage{
			LoginURL:          "https://auth.example/one-click",
			NextStage:         models.StageSignup,
			SignupAuthMethods: []string{"BASIC_LOGIN"},
		})
		email := NewEmail(r.identity, r.runner)

		state, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
		require.NoError(t, err)

		assert.Equal(t, models.StateAuthenticated, state.Kind)
		assert.Equal(t, 1, r.identity.Calls("WaitForSignup"))
		assert.Equal(t, 1, r.identity.Calls("WaitForWalletCreation"))
	})

	t.Run("passkey signup skips the wallet stage", func(t *testing.T) {
		r := newRig()
		r.identity.ScriptOneClick("new@example.com", &models.VerifyStage{
			LoginURL:          "https://auth.example/one-click",
			NextStage:         models.StageSignup,
			SignupAuthMethods: []string{"PASSKEY"},
		})
		email := NewEmail(r.identity, r.runner)

		state, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
		require.NoError(t, err)

		assert.Equal(t, models.StateAuthenticated, state.Kind)
		assert.Zero(t, r.identity.Calls("WaitForWalletCreation"))
	})
}

func TestIdentifierFlow_ExistingUser(t *testing.T) {
	t.Run("no portal means native credential login", func(t *testing.T) {
		r := newRig()
		r.identity.SeedVerifiedAccount("known@example.com", true)
		email := NewEmail(r.identity, r.runner)

		state, err := email.SignUpOrLogIn(context.Background(), "known@example.com")
		require.NoError(t, err)

		assert.Equal(t, models.StateCredentialLoginRequired, state.Kind)
		assert.Equal(t, "known@example.com", state.Identifier)
		assert.Empty(t, r.browser.Opened())
	})

	t.Run("portal login completes in the browser", func(t *testing.T) {
		r := newRig()
		r.identity.SeedVerifiedAccount("known@example.com", false)
		r.identity.ScriptPortal("known@example.com", &models.LoginStage{
			PasskeyURL: "https://auth.example/portal/passkey",
		})
		email := NewEmail(r.identity, r.runner)

		state, err := email.SignUpOrLogIn(context.Background(), "known@example.com")
		require.NoError(t, err)

		assert.Equal(t, models.StateAuthenticated, state.Kind)
		require.Len(t, r.browser.Opened(), 1)
		assert.True(t, strings.HasPrefix(r.browser.Opened()[0], "https://auth.example/portal/passkey"))
	})
}

func TestIdentifierFlow_DismissedBrowserIsCancellation(t *testing.T) {
	r := newRig()
	r.identity.ScriptOneClick("new@example.com", &models.VerifyStage{
		LoginURL:  "https://auth.example/one-click",
		NextStage: models.StageLogin,
	})
	r.browser.Cancel()
	email := NewEmail(r.identity, r.runner)

	_, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
	require.Error(t, err)

	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Cancelled)
	assert.Zero(t, r.identity.Calls("WaitForLogin"))
	assert.Zero(t, r.importer.importCalls())
}

func TestIdentifierFlow_ErrorPolicy(t *testing.T) {
	t.Run("raw provider error gets strategy wrapping", func(t *testing.T) {
		r := newRig()
		r.identity.FailWith("SignUpOrLogIn", &provider.Error{
			Message:    "upstream broke",
			StatusCode: 500,
			ErrorCode:  "E_UPSTREAM",
		})
		email := NewEmail(r.identity, r.runner)

		_, err := email.SignUpOrLogIn(context.Background(), "user@example.com")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.Equal(t, "email authentication failed: upstream broke (Status: 500) (Code: E_UPSTREAM)", err.Error())
	})

	t.Run("cancellation passes through unwrapped", func(t *testing.T) {
		r := newRig()
		cancelled := provider.NewCancelled("user cancelled sign-in")
		r.identity.FailWith("SignUpOrLogIn", cancelled)
		email := NewEmail(r.identity, r.runner)

		_, err := email.SignUpOrLogIn(context.Background(), "user@example.com")
		require.ErrorIs(t, err, cancelled)
	})

	t.Run("domain-coded error keeps its classification", func(t *testing.T) {
		r := newRig()
		r.identity.SeedVerifiedAccount("known@example.com", false)
		r.identity.ScriptPortal("known@example.com", &models.LoginStage{
			PasswordURL: "https://auth.example/portal/password",
		})
		r.importer.err = dErrors.New(dErrors.CodeTransport, "backend down")
		email := NewEmail(r.identity, r.runner)

		_, err := email.SignUpOrLogIn(context.Background(), "known@example.com")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTransport))
		assert.NotContains(t, err.Error(), "authentication failed")
	})
}

func TestIdentifierFlow_UnexpectedStages(t *testing.T) {
	tests := []struct {
		name    string
		outcome *models.SignUpOutcome
	}{
		{"unknown stage", &models.SignUpOutcome{Stage: models.Stage("weird")}},
		{"verify stage without payload", &models.SignUpOutcome{Stage: models.StageVerify}},
		{"login stage without payload", &models.SignUpOutcome{Stage: models.StageLogin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			identity := &stubIdentity{Provider: r.identity, outcome: tt.outcome}
			email := NewEmail(identity, r.runner)

			_, err := email.SignUpOrLogIn(context.Background(), "user@example.com")
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeProtocol))
			assert.Contains(t, err.Error(), "unexpected provider stage")
		})
	}
}

func TestIdentifierFlow_UnexpectedNextStage(t *testing.T) {
	r := newRig()
	r.identity.ScriptOneClick("new@example.com", &models.VerifyStage{
		LoginURL:  "https://auth.example/one-click",
		NextStage: models.Stage("weird"),
	})
	email := NewEmail(r.identity, r.runner)

	_, err := email.SignUpOrLogIn(context.Background(), "new@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProtocol))
}

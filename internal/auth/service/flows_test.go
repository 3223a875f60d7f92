package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitauth/internal/auth/credential"
	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/provider/memory"
	"remitauth/internal/auth/redirect"
	"remitauth/internal/auth/session"
	"remitauth/internal/auth/strategy"
	"remitauth/internal/auth/verification"
)

// stack is the fully wired facade over the in-memory doubles, with the
// doubles exposed for scripting. It mirrors what the factory assembles for
// the mock provider kind.
type stack struct {
	identity *memory.Provider
	wallet   *memory.Wallet
	browser  *memory.Browser
	importer *fakeImporter
	service  *Service
}

func newStack(t *testing.T) *stack {
	t.Helper()

	identity := memory.New()
	wallet := memory.NewWallet()
	browser := memory.NewBrowser()
	importer := &fakeImporter{}

	sessions, err := session.NewManager(identity, importer)
	require.NoError(t, err)
	redirects := redirect.NewCoordinator(browser, identity, "remit")
	runner := strategy.NewFlowRunner(redirects, sessions)

	verifier, err := verification.NewCoordinator(identity, sessions)
	require.NoError(t, err)
	credentials, err := credential.NewService(identity, sessions)
	require.NoError(t, err)

	service, err := NewService(Deps{
		Identity:    identity,
		Wallet:      wallet,
		Sessions:    sessions,
		Verifier:    verifier,
		Credentials: credentials,
		Email:       strategy.NewEmail(identity, runner),
		Phone:       strategy.NewPhone(identity, runner),
		OAuth:       strategy.NewOAuth(identity, wallet, runner),
	})
	require.NoError(t, err)

	return &stack{
		identity: identity,
		wallet:   wallet,
		browser:  browser,
		importer: importer,
		service:  service,
	}
}

// TestFlow_EmailSignupToPasskey walks a new email user end to end: sign
// up, verify the code, register a passkey, and come out authenticated.
func TestFlow_EmailSignupToPasskey(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	require.NoError(t, st.service.Initialize(ctx))

	state, err := st.service.SignUpOrLogInWithEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.Equal(t, models.StateNeedsVerification, state.Kind)
	assert.False(t, st.service.IsSessionActive(ctx))

	result, err := st.service.VerifyNewAccount(ctx, memory.DefaultCode)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.AuthContext)
	assert.Nil(t, result.User)

	registered, err := st.service.RegisterPasskey(ctx, result.AuthContext)
	require.NoError(t, err)
	require.True(t, registered.Success)
	assert.Equal(t, "backend-token", registered.BackendSessionToken)
	assert.NotNil(t, registered.User)

	assert.True(t, st.service.IsSessionActive(ctx))
	assert.Empty(t, st.browser.Opened(), "the code path never opens a browser")
}

// TestFlow_PhoneRecoveryWithActiveSession covers the repeat-signup race: a
// phone number that already belongs to a verified account, with a provider
// session still live on the device. Verification must adopt the session
// directly, without a passkey prompt.
func TestFlow_PhoneRecoveryWithActiveSession(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	state, err := st.service.SignUpOrLogInWithPhone(ctx, "+1 (415) 555-2671")
	require.NoError(t, err)
	require.Equal(t, models.StateNeedsVerification, state.Kind)
	require.Equal(t, "+14155552671", state.Identifier)

	// The same number finished verification elsewhere while the code was in
	// transit, and its provider session is still live on this device.
	accountID := st.identity.SeedVerifiedAccount("+14155552671", true)
	st.identity.SetSessionActive(true, accountID)

	result, err := st.service.VerifyNewAccount(ctx, memory.DefaultCode)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.User)
	assert.Equal(t, "backend-token", result.BackendSessionToken)

	assert.Zero(t, st.identity.Calls("LoginWithPasskey"), "a live session is adopted, never re-authenticated")
	assert.Equal(t, 1, st.importer.calls())
}

// TestFlow_OAuthExistingUserWithWalletStage covers the returning OAuth user
// whose wallet creation is still pending: the portal login and the wallet
// stage both complete in the browser before the session is refreshed.
func TestFlow_OAuthExistingUserWithWalletStage(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	st.identity.ScriptOAuth(provider.OAuthGoogle, memory.OAuthScript{
		IsNewUser:   false,
		PasswordURL: "https://auth.example/portal/password",
	})
	st.identity.SetNeedsWallet(true)

	state, err := st.service.SignUpOrLogInWithOAuth(ctx, "google")
	require.NoError(t, err)

	assert.Equal(t, models.StateCredentialLoginRequired, state.Kind)
	assert.Equal(t, "google", state.Identifier)
	assert.Len(t, st.browser.Opened(), 2, "oauth consent plus the password portal")
	assert.Equal(t, 1, st.identity.Calls("WaitForWalletCreation"))
	assert.Equal(t, 1, st.identity.Calls("TouchSession"))

	// The native credential step completes sign-in.
	st.identity.SeedVerifiedAccount("oauth-user@example.com", true)
	result, err := st.service.LoginWithPasskey(ctx)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "backend-token", result.BackendSessionToken)
}

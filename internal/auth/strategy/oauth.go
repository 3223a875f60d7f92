package strategy

import (
	"context"
	"log/slog"
	"strings"

	"remitauth/internal/auth/errclass"
	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// OAuth signs users up or in via a third-party OAuth provider. The flow is
// keyed on the provider's isNewUser verdict rather than the stage field,
// which is documented as unreliable for OAuth.
type OAuth struct {
	identity provider.Identity
	wallet   provider.Wallet
	runner   *FlowRunner
	logger   *slog.Logger
}

type OAuthOption func(*OAuth)

func WithOAuthLogger(logger *slog.Logger) OAuthOption {
	return func(s *OAuth) {
		s.logger = logger
	}
}

func NewOAuth(identity provider.Identity, wallet provider.Wallet, runner *FlowRunner, opts ...OAuthOption) *OAuth {
	strategy := &OAuth{
		identity: identity,
		wallet:   wallet,
		runner:   runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(strategy)
	}
	return strategy
}

func (s *OAuth) Name() string { return string(provider.KindOAuth) }

func (s *OAuth) SignUpOrLogIn(ctx context.Context, method string) (*models.AuthState, error) {
	oauthMethod := provider.OAuthMethod(strings.ToLower(strings.TrimSpace(method)))
	if oauthMethod != provider.OAuthGoogle && oauthMethod != provider.OAuthApple {
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported oauth provider: "+method)
	}

	authURL, err := s.identity.OAuthURL(ctx, oauthMethod, s.runner.redirects.AppScheme())
	if err != nil {
		return nil, classify(provider.KindOAuth, err)
	}
	if err := s.runner.OpenAndConfirm(ctx, authURL); err != nil {
		return nil, classify(provider.KindOAuth, err)
	}

	outcome, err := s.identity.VerifyOAuth(ctx, oauthMethod)
	if err != nil {
		return nil, classify(provider.KindOAuth, err)
	}

	if outcome.IsNewUser {
		return s.newUser(ctx, oauthMethod)
	}
	return s.existingUser(ctx, oauthMethod, outcome)
}

// newUser completes signup and provisions the wallet. When setup fails for
// a non-cancellation reason the flow degrades to a verification-pending
// state so the caller can fall back to credential registration; logged at
// warn because this path reaches passkey registration without a prior code
// verification, unlike email and phone.
func (s *OAuth) newUser(ctx context.Context, method provider.OAuthMethod) (*models.AuthState, error) {
	state, err := s.completeNewUserSetup(ctx)
	if err == nil {
		return state, nil
	}
	if errclass.IsCancellation(err) {
		return nil, err
	}
	s.logger.Warn("oauth new-user setup failed, degrading to credential registration",
		"method", string(method), "error", err)
	return models.NewNeedsVerification(string(method), nil), nil
}

func (s *OAuth) completeNewUserSetup(ctx context.Context) (*models.AuthState, error) {
	if err := s.runner.redirects.WaitForSignup(ctx); err != nil {
		return nil, err
	}
	if err := s.wallet.ProvisionForCurrentUser(ctx); err != nil {
		return nil, err
	}
	return s.runner.completeAuthenticated(ctx)
}

// existingUser handles the returning-user branch. Password-portal users
// finish login in the browser (plus the wallet-creation stage when the
// provider says one is still pending); passkey users have no portal. Both
// end in the credential-login state: the native credential step completes
// sign-in afterwards.
func (s *OAuth) existingUser(ctx context.Context, method provider.OAuthMethod, outcome *models.OAuthOutcome) (*models.AuthState, error) {
	if outcome.PasswordURL == "" {
		return models.NewCredentialLoginRequired(string(method)), nil
	}

	if err := s.runner.OpenAndConfirm(ctx, outcome.PasswordURL); err != nil {
		return nil, classify(provider.KindOAuth, err)
	}
	waitResult, err := s.runner.redirects.WaitForLogin(ctx)
	if err != nil {
		return nil, classify(provider.KindOAuth, err)
	}
	if waitResult.NeedsWallet {
		if err := s.runner.redirects.WaitForWalletCreation(ctx); err != nil {
			return nil, classify(provider.KindOAuth, err)
		}
	}
	if err := s.runner.sessions.Touch(ctx); err != nil {
		return nil, err
	}
	return models.NewCredentialLoginRequired(string(method)), nil
}

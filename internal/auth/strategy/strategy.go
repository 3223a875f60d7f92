// Package strategy implements the per-identifier sign-in strategies. Email
// and phone share one stage machine over the provider's combined
// sign-up-or-login entry point; OAuth has its own, keyed on the provider's
// isNewUser verdict. The shared sequencing lives in FlowRunner (composition
// rather than a template-method base).
package strategy

import (
	"context"
	"errors"
	"fmt"

	"remitauth/internal/auth/errclass"
	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/redirect"
	"remitauth/internal/auth/session"
	dErrors "remitauth/pkg/domain-errors"
)

// Strategy is the common sign-in contract. Implementations drive the
// provider through its stage machine to a terminal AuthState.
type Strategy interface {
	// Name tags diagnostics and wrapped errors.
	Name() string
	SignUpOrLogIn(ctx context.Context, identifier string) (*models.AuthState, error)
}

// FlowRunner holds the redirect/session sequencing shared by every
// strategy. The ordering inside is load-bearing: session touch always
// follows the wait milestone, and backend import always follows touch.
type FlowRunner struct {
	redirects *redirect.Coordinator
	sessions  *session.Manager
}

func NewFlowRunner(redirects *redirect.Coordinator, sessions *session.Manager) *FlowRunner {
	return &FlowRunner{redirects: redirects, sessions: sessions}
}

// FinishLogin waits for the provider's login milestone, then refreshes the
// session and exchanges it with the backend.
func (r *FlowRunner) FinishLogin(ctx context.Context) (*models.AuthState, error) {
	if _, err := r.redirects.WaitForLogin(ctx); err != nil {
		return nil, err
	}
	return r.completeAuthenticated(ctx)
}

// FinishSignup waits for signup completion; password-based signups carry an
// extra wallet-creation browser stage before the session is usable.
func (r *FlowRunner) FinishSignup(ctx context.Context, signupAuthMethods []string) (*models.AuthState, error) {
	if err := r.redirects.WaitForSignup(ctx); err != nil {
		return nil, err
	}
	if containsAuthMethod(signupAuthMethods, models.AuthMethodBasicLogin) {
		if err := r.redirects.WaitForWalletCreation(ctx); err != nil {
			return nil, err
		}
	}
	return r.completeAuthenticated(ctx)
}

// OpenAndConfirm launches the browser sub-flow and converts a dismissed or
// cancelled session into a cancellation-flagged error, which strategies
// propagate unwrapped.
func (r *FlowRunner) OpenAndConfirm(ctx context.Context, rawURL string) error {
	result, err := r.redirects.Open(ctx, rawURL)
	if err != nil {
		return err
	}
	if !result.Completed {
		return provider.NewCancelled("authentication session was dismissed")
	}
	return nil
}

func (r *FlowRunner) completeAuthenticated(ctx context.Context) (*models.AuthState, error) {
	if err := r.sessions.Touch(ctx); err != nil {
		return nil, err
	}
	backendSession, err := r.sessions.ImportToBackend(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewAuthenticated(&backendSession.User, backendSession.Token), nil
}

func containsAuthMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// classify applies the strategy error policy: cancellations pass through
// unwrapped so callers can tell "user cancelled" from failure, errors
// already carrying a domain code keep their classification, and raw
// provider errors get the strategy-tagged wrapping.
func classify(kind provider.IdentifierKind, err error) error {
	if err == nil {
		return nil
	}
	if errclass.IsCancellation(err) {
		return err
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return errclass.WrapAuthError(string(kind), errclass.Extract(err))
}

func unexpectedStage(stage models.Stage) error {
	return dErrors.New(dErrors.CodeProtocol, fmt.Sprintf("unexpected provider stage %q", stage))
}

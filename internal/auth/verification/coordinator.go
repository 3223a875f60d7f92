// Package verification drives one-time-code verification for newly created
// accounts, including the "account already exists" recovery ladder.
package verification

import (
	"context"
	"errors"
	"log/slog"

	"remitauth/internal/auth/errclass"
	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/session"
	dErrors "remitauth/pkg/domain-errors"
)

// Coordinator submits verification codes and recovers from the provider's
// already-exists rejection without creating duplicate accounts.
type Coordinator struct {
	identity provider.Identity
	sessions *session.Manager
	logger   *slog.Logger
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func NewCoordinator(identity provider.Identity, sessions *session.Manager, opts ...Option) (*Coordinator, error) {
	if identity == nil {
		return nil, errors.New("identity provider is required")
	}
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}
	coordinator := &Coordinator{
		identity: identity,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(coordinator)
	}
	return coordinator, nil
}

// VerifyNewAccount submits the one-time code. On success the returned
// result carries the provider's verified auth context, which the caller
// feeds into passkey registration; it is not a terminal sign-in.
//
// An already-exists rejection enters recovery: adopt a live session if one
// exists, else fall back to passkey login. Recovery either signs the user
// in fully or raises; it never returns Success=false, because an ambiguous
// half-recovered state must surface, not fail quietly.
func (c *Coordinator) VerifyNewAccount(ctx context.Context, code string) (*models.VerificationResult, error) {
	authContext, err := c.identity.VerifyNewAccount(ctx, code)
	if err == nil {
		return &models.VerificationResult{Success: true, AuthContext: authContext}, nil
	}
	if !errclass.IsAccountExists(err) {
		return nil, err
	}

	c.logger.Info("account already verified, attempting session adoption")

	// A live session means the user is already signed in with the provider;
	// adopt it directly. Passkey login must not run on this path.
	if c.sessions.IsActive(ctx) {
		return c.adoptSession(ctx)
	}

	if err := c.identity.LoginWithPasskey(ctx); err != nil {
		if errclass.IsPasskeyConfigError(err) {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration,
				"passkeys are not configured for this app with the identity provider")
		}
		return nil, err
	}
	return c.adoptSession(ctx)
}

func (c *Coordinator) adoptSession(ctx context.Context) (*models.VerificationResult, error) {
	backendSession, err := c.sessions.ImportToBackend(ctx)
	if err != nil {
		return nil, err
	}
	return &models.VerificationResult{
		Success:             true,
		User:                &backendSession.User,
		BackendSessionToken: backendSession.Token,
	}, nil
}

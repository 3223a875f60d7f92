// Package credential finalizes a verified identity into a durable device
// credential: registering a new passkey or logging in with an existing one,
// then exchanging the resulting session with the backend.
package credential

import (
	"context"
	"errors"
	"log/slog"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/session"
	dErrors "remitauth/pkg/domain-errors"
)

// Service completes credential registration/login. Provider-level
// credential failures (no passkey on device, user declined) are expected
// outcomes and return Success=false rather than an error; session import
// failures after a successful credential step still raise.
type Service struct {
	identity provider.Identity
	sessions *session.Manager
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(identity provider.Identity, sessions *session.Manager, opts ...Option) (*Service, error) {
	if identity == nil {
		return nil, errors.New("identity provider is required")
	}
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}
	service := &Service{
		identity: identity,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// RegisterCredential registers a new passkey bound to the verified auth
// context, then imports the resulting session to the backend.
func (s *Service) RegisterCredential(ctx context.Context, authContext models.ProviderAuthContext) (*models.VerificationResult, error) {
	if authContext == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "verified auth context is required for passkey registration")
	}
	if err := s.identity.RegisterPasskey(ctx, authContext); err != nil {
		s.logger.Warn("passkey registration failed", "error", err)
		return &models.VerificationResult{Success: false}, nil
	}
	return s.importSession(ctx)
}

// LoginWithCredential logs in with an existing passkey using ambient
// provider context, then imports the session.
func (s *Service) LoginWithCredential(ctx context.Context) (*models.VerificationResult, error) {
	if err := s.identity.LoginWithPasskey(ctx); err != nil {
		s.logger.Warn("passkey login failed", "error", err)
		return &models.VerificationResult{Success: false}, nil
	}
	return s.importSession(ctx)
}

func (s *Service) importSession(ctx context.Context) (*models.VerificationResult, error) {
	backendSession, err := s.sessions.ImportToBackend(ctx)
	if err != nil {
		return nil, err
	}
	return &models.VerificationResult{
		Success:             true,
		User:                &backendSession.User,
		BackendSessionToken: backendSession.Token,
	}, nil
}

// Package service exposes the auth facade consumed by the rest of the app:
// sign-in entry points, verification, credential completion, and session
// introspection. It adds sequencing (the in-flight operation guard) and
// observability, but no error wrapping of its own.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"remitauth/internal/auth/credential"
	"remitauth/internal/auth/errclass"
	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/session"
	"remitauth/internal/auth/strategy"
	"remitauth/internal/auth/verification"
	"remitauth/internal/platform/metrics"
	dErrors "remitauth/pkg/domain-errors"
)

// Deps are the collaborators the facade delegates to. The factory package
// assembles them per provider selection.
type Deps struct {
	Identity    provider.Identity
	Wallet      provider.Wallet
	Sessions    *session.Manager
	Verifier    *verification.Coordinator
	Credentials *credential.Service
	Email       strategy.Strategy
	Phone       strategy.Strategy
	OAuth       strategy.Strategy
}

// Service is the AuthProvider facade. One instance per app; concurrent
// interactive operations are refused, not queued, so a second tap on a
// submit control cannot race an in-flight flow on the provider session.
type Service struct {
	deps    Deps
	logger  *slog.Logger
	metrics *metrics.Metrics

	// guard serializes auth operations. The background session refresh
	// shares it, so keep-alive can never interleave with a sign-in.
	guard sync.Mutex

	mu          sync.Mutex
	pendingKind provider.IdentifierKind
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(deps Deps, opts ...Option) (*Service, error) {
	switch {
	case deps.Identity == nil:
		return nil, errors.New("identity provider is required")
	case deps.Wallet == nil:
		return nil, errors.New("wallet provider is required")
	case deps.Sessions == nil:
		return nil, errors.New("session manager is required")
	case deps.Verifier == nil:
		return nil, errors.New("verification coordinator is required")
	case deps.Credentials == nil:
		return nil, errors.New("credential service is required")
	case deps.Email == nil || deps.Phone == nil || deps.OAuth == nil:
		return nil, errors.New("all identifier strategies are required")
	}
	service := &Service{
		deps:   deps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Initialize brings up both providers. Called once at app start, before
// any sign-in entry point.
func (s *Service) Initialize(ctx context.Context) error {
	return provider.InitializeAll(ctx, s.deps.Identity, s.deps.Wallet)
}

func (s *Service) SignUpOrLogInWithEmail(ctx context.Context, email string) (*models.AuthState, error) {
	return s.signUpOrLogIn(ctx, s.deps.Email, email)
}

func (s *Service) SignUpOrLogInWithPhone(ctx context.Context, phone string) (*models.AuthState, error) {
	return s.signUpOrLogIn(ctx, s.deps.Phone, phone)
}

func (s *Service) SignUpOrLogInWithOAuth(ctx context.Context, oauthProvider string) (*models.AuthState, error) {
	return s.signUpOrLogIn(ctx, s.deps.OAuth, oauthProvider)
}

func (s *Service) signUpOrLogIn(ctx context.Context, strat strategy.Strategy, identifier string) (*models.AuthState, error) {
	if !s.guard.TryLock() {
		return nil, errInFlight()
	}
	defer s.guard.Unlock()

	state, err := strat.SignUpOrLogIn(ctx, identifier)
	s.metrics.RecordSignIn(strat.Name(), signInOutcome(state, err))
	if err != nil {
		s.observeFailure(strat.Name(), err)
		return nil, err
	}
	if state.Kind == models.StateNeedsVerification {
		s.setPendingKind(provider.IdentifierKind(strat.Name()))
	}
	return state, nil
}

// VerifyNewAccount submits the one-time code for a pending sign-up.
func (s *Service) VerifyNewAccount(ctx context.Context, code string) (*models.VerificationResult, error) {
	if !s.guard.TryLock() {
		return nil, errInFlight()
	}
	defer s.guard.Unlock()

	result, err := s.deps.Verifier.VerifyNewAccount(ctx, code)
	if err != nil {
		return nil, err
	}
	// A user on the result means the already-exists ladder signed us in.
	if result.User != nil && s.metrics != nil {
		s.metrics.VerificationRecoveries.Inc()
	}
	if result.Success && result.AuthContext == nil {
		s.setPendingKind("")
	}
	return result, nil
}

// ResendVerificationCode re-sends the code for the identifier family of the
// pending sign-up.
func (s *Service) ResendVerificationCode(ctx context.Context) error {
	kind := s.getPendingKind()
	if kind == "" {
		return dErrors.New(dErrors.CodeValidation, "no verification in progress")
	}
	return s.deps.Identity.ResendVerificationCode(ctx, kind)
}

// RegisterPasskey binds a device credential to a verified identity and
// completes backend session exchange.
func (s *Service) RegisterPasskey(ctx context.Context, authContext models.ProviderAuthContext) (*models.VerificationResult, error) {
	if !s.guard.TryLock() {
		return nil, errInFlight()
	}
	defer s.guard.Unlock()

	result, err := s.deps.Credentials.RegisterCredential(ctx, authContext)
	if err == nil && result.Success {
		s.setPendingKind("")
	}
	return result, err
}

// LoginWithPasskey signs in with an existing device credential.
func (s *Service) LoginWithPasskey(ctx context.Context) (*models.VerificationResult, error) {
	if !s.guard.TryLock() {
		return nil, errInFlight()
	}
	defer s.guard.Unlock()
	return s.deps.Credentials.LoginWithCredential(ctx)
}

// IsSessionActive reports provider session liveness. Read-only, so it does
// not take the operation guard.
func (s *Service) IsSessionActive(ctx context.Context) bool {
	return s.deps.Sessions.IsActive(ctx)
}

// KeepSessionAlive extends the provider session. The periodic background
// refresh calls this; when an interactive operation holds the guard the
// refresh is skipped and reported successful, since the in-flight flow is
// already exercising the session.
func (s *Service) KeepSessionAlive(ctx context.Context) bool {
	if !s.guard.TryLock() {
		s.logger.Debug("skipping keep-alive, auth operation in progress")
		return true
	}
	defer s.guard.Unlock()
	return s.deps.Sessions.KeepAlive(ctx)
}

// Logout destroys the provider session.
func (s *Service) Logout(ctx context.Context) error {
	if !s.guard.TryLock() {
		return errInFlight()
	}
	defer s.guard.Unlock()

	s.setPendingKind("")
	return s.deps.Identity.Logout(ctx)
}

func (s *Service) setPendingKind(kind provider.IdentifierKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingKind = kind
}

func (s *Service) getPendingKind() provider.IdentifierKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingKind
}

func (s *Service) observeFailure(strategyName string, err error) {
	if errclass.IsCancellation(err) {
		// User choice, not a failure.
		s.logger.Info("sign-in cancelled", "strategy", strategyName)
		return
	}
	if s.metrics != nil &&
		(dErrors.HasCode(err, dErrors.CodeTransport) || dErrors.HasCode(err, dErrors.CodeUnauthorized)) {
		s.metrics.BackendImportFailures.Inc()
	}
	s.logger.Error("sign-in failed", "strategy", strategyName, "error", err)
}

func signInOutcome(state *models.AuthState, err error) string {
	switch {
	case err == nil:
		return string(state.Kind)
	case errclass.IsCancellation(err):
		return "cancelled"
	default:
		return "error"
	}
}

func errInFlight() error {
	return dErrors.New(dErrors.CodeConflict, "another authentication operation is in progress")
}

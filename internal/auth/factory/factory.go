// Package factory selects provider implementations by configuration and
// assembles the auth facade. Selection lives here so business logic never
// branches on environment.
package factory

import (
	"errors"
	"log/slog"

	"remitauth/internal/auth/backend"
	"remitauth/internal/auth/credential"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/provider/memory"
	"remitauth/internal/auth/provider/para"
	"remitauth/internal/auth/redirect"
	"remitauth/internal/auth/service"
	"remitauth/internal/auth/session"
	"remitauth/internal/auth/strategy"
	"remitauth/internal/auth/verification"
	"remitauth/internal/platform/config"
	"remitauth/internal/platform/metrics"
)

type options struct {
	browser  redirect.Browser
	importer session.Importer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*options)

// WithBrowser injects the platform browser implementation. Required for
// the para provider kind; the mock kind defaults to the auto-completing
// in-memory browser.
func WithBrowser(browser redirect.Browser) Option {
	return func(o *options) {
		o.browser = browser
	}
}

// WithImporter overrides the backend session importer, mainly for tests.
func WithImporter(importer session.Importer) Option {
	return func(o *options) {
		o.importer = importer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Build assembles the facade for the configured provider kinds.
func Build(cfg config.Auth, opts ...Option) (*service.Service, error) {
	assembled := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&assembled)
	}

	var paraClient *para.Client
	if cfg.IdentityProvider == config.ProviderPara || cfg.WalletProvider == config.ProviderPara {
		paraClient = para.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey)
	}

	var identity provider.Identity
	switch cfg.IdentityProvider {
	case config.ProviderPara:
		identity = para.NewIdentity(paraClient)
	default:
		identity = memory.New()
	}

	var wallet provider.Wallet
	switch cfg.WalletProvider {
	case config.ProviderPara:
		wallet = para.NewWallet(paraClient)
	default:
		wallet = memory.NewWallet()
	}

	browser := assembled.browser
	if browser == nil {
		if cfg.IdentityProvider == config.ProviderPara {
			return nil, errors.New("a browser implementation is required for the para provider")
		}
		browser = memory.NewBrowser()
	}

	importer := assembled.importer
	if importer == nil {
		importer = backend.NewClient(cfg.BackendBaseURL)
	}

	sessions, err := session.NewManager(identity, importer, session.WithLogger(assembled.logger))
	if err != nil {
		return nil, err
	}
	redirects := redirect.NewCoordinator(browser, identity, cfg.AppScheme)
	runner := strategy.NewFlowRunner(redirects, sessions)

	verifier, err := verification.NewCoordinator(identity, sessions, verification.WithLogger(assembled.logger))
	if err != nil {
		return nil, err
	}
	credentials, err := credential.NewService(identity, sessions, credential.WithLogger(assembled.logger))
	if err != nil {
		return nil, err
	}

	return service.NewService(service.Deps{
		Identity:    identity,
		Wallet:      wallet,
		Sessions:    sessions,
		Verifier:    verifier,
		Credentials: credentials,
		Email:       strategy.NewEmail(identity, runner),
		Phone:       strategy.NewPhone(identity, runner),
		OAuth:       strategy.NewOAuth(identity, wallet, runner, strategy.WithOAuthLogger(assembled.logger)),
	}, service.WithLogger(assembled.logger), service.WithMetrics(assembled.metrics))
}

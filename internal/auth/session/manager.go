// Package session owns the live identity-provider session: liveness,
// keep-alive, serialization, and exchange with the backend. It has no
// knowledge of how the session was established.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

//go:generate mockgen -source=manager.go -destination=mocks/mocks.go -package=mocks

// Importer is the backend session-import collaborator.
type Importer interface {
	ImportSession(ctx context.Context, serializedSession string) (*models.BackendSession, error)
}

// Manager wraps the provider's session surface with this core's failure
// contracts: liveness checks fail soft, serialization fails hard.
type Manager struct {
	identity provider.Identity
	importer Importer
	logger   *slog.Logger
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(identity provider.Identity, importer Importer, opts ...Option) (*Manager, error) {
	if identity == nil {
		return nil, errors.New("identity provider is required")
	}
	if importer == nil {
		return nil, errors.New("session importer is required")
	}
	manager := &Manager{
		identity: identity,
		importer: importer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager, nil
}

// IsActive reports provider session liveness. Provider errors are logged
// and treated as inactive so callers get a plain answer, not a third state.
func (m *Manager) IsActive(ctx context.Context) bool {
	active, err := m.identity.IsSessionActive(ctx)
	if err != nil {
		m.logger.Warn("session liveness check failed", "error", err)
		return false
	}
	return active
}

// KeepAlive extends the session without re-authentication. Same soft-fail
// contract as IsActive.
func (m *Manager) KeepAlive(ctx context.Context) bool {
	if err := m.identity.KeepSessionAlive(ctx); err != nil {
		m.logger.Warn("session keep-alive failed", "error", err)
		return false
	}
	return true
}

// Serialize exports the provider session. Unlike the liveness checks this
// fails hard: swallowing an export error here could send an empty session
// to the backend.
func (m *Manager) Serialize(ctx context.Context, excludeSigners bool) (string, error) {
	serialized, err := m.identity.ExportSession(ctx, provider.ExportOptions{ExcludeSigners: excludeSigners})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to export provider session")
	}
	return serialized, nil
}

// Touch re-hydrates the session after a browser redirect completes.
// Post-redirect state is required for every subsequent provider call, so
// errors propagate.
func (m *Manager) Touch(ctx context.Context) error {
	if err := m.identity.TouchSession(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to refresh session after redirect")
	}
	return nil
}

// ImportToBackend exchanges the live provider session for a backend
// session. The ordering is load-bearing: liveness is confirmed before
// serialization, and the backend is never called with a blank session.
func (m *Manager) ImportToBackend(ctx context.Context) (*models.BackendSession, error) {
	if !m.IsActive(ctx) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Cannot export session: session is not active")
	}

	serialized, err := m.Serialize(ctx, true)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(serialized) == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "exported session is empty; refusing backend import")
	}

	backendSession, err := m.importer.ImportSession(ctx, serialized)
	if err != nil {
		return nil, err
	}
	m.logger.Info("session imported to backend", "user_id", backendSession.User.ID)
	return backendSession, nil
}

package strategy

import (
	"context"
	"sync"
	"time"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/provider/memory"
	"remitauth/internal/auth/redirect"
	"remitauth/internal/auth/session"
)

// fakeImporter is the backend stand-in for strategy tests. It returns a
// fixed session and records what was imported.
type fakeImporter struct {
	mu         sync.Mutex
	err        error
	calls      int
	serialized string
}

func (f *fakeImporter) ImportSession(ctx context.Context, serializedSession string) (*models.BackendSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.serialized = serializedSession
	if f.err != nil {
		return nil, f.err
	}
	return &models.BackendSession{
		Token:     "backend-token",
		User:      models.UserProfile{ID: "user-1", Email: "user@example.com"},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeImporter) importCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// rig assembles the strategy collaborators around the in-memory doubles.
type rig struct {
	identity *memory.Provider
	wallet   *memory.Wallet
	browser  *memory.Browser
	importer *fakeImporter
	sessions *session.Manager
	runner   *FlowRunner
}

func newRig() *rig {
	identity := memory.New()
	browser := memory.NewBrowser()
	importer := &fakeImporter{}
	sessions, err := session.NewManager(identity, importer)
	if err != nil {
		panic(err)
	}
	redirects := redirect.NewCoordinator(browser, identity, "remit")
	return &rig{
		identity: identity,
		wallet:   memory.NewWallet(),
		browser:  browser,
		importer: importer,
		sessions: sessions,
		runner:   NewFlowRunner(redirects, sessions),
	}
}

// stubIdentity overrides SignUpOrLogIn to return a scripted outcome, for
// provider responses the memory double never produces.
type stubIdentity struct {
	*memory.Provider
	outcome *models.SignUpOutcome
	err     error
}

func (s *stubIdentity) SignUpOrLogIn(ctx context.Context, ident provider.Identifier) (*models.SignUpOutcome, error) {
	return s.outcome, s.err
}

// Package memory is the in-process identity provider double, selected by
// the mock provider kind and reused as the rich fake in tests. Behavior is
// deterministic: browser milestones complete immediately, and failures are
// scripted per operation.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
)

// DefaultCode is the verification code the double accepts unless one is
// scripted.
const DefaultCode = "123456"

// Account is a provider-side identity.
type Account struct {
	ID         string
	Identifier string
	Verified   bool
	HasPasskey bool
}

// AuthContext is the double's opaque verified-identity handle.
type AuthContext struct {
	AccountID string
}

// OAuthScript fixes the outcome of an OAuth verification.
type OAuthScript struct {
	IsNewUser   bool
	PasswordURL string
}

// Provider implements provider.Identity in memory.
type Provider struct {
	mu sync.Mutex

	accounts map[string]*Account
	pending  string
	code     string

	sessionActive bool
	sessionOwner  string
	needsWallet   bool

	oneClicks map[string]*models.VerifyStage
	portals   map[string]*models.LoginStage
	oauth     map[provider.OAuthMethod]OAuthScript

	exportOverride *string
	failures       map[string]error
	calls          map[string]int
}

func New() *Provider {
	return &Provider{
		accounts:  make(map[string]*Account),
		code:      DefaultCode,
		oneClicks: make(map[string]*models.VerifyStage),
		portals:   make(map[string]*models.LoginStage),
		oauth:     make(map[provider.OAuthMethod]OAuthScript),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

// ---------------------------------------------------------------------------
// Scripting surface (used by the factory's mock wiring and by tests)
// ---------------------------------------------------------------------------

// SeedVerifiedAccount registers an existing, verified identity and returns
// its account ID.
func (p *Provider) SeedVerifiedAccount(identifier string, hasPasskey bool) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	account := &Account{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Verified:   true,
		HasPasskey: hasPasskey,
	}
	p.accounts[identifier] = account
	return account.ID
}

// ScriptOneClick makes sign-up for identifier take the browser one-click
// path instead of code entry.
func (p *Provider) ScriptOneClick(identifier string, stage *models.VerifyStage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.oneClicks[identifier] = stage
}

// ScriptPortal attaches portal URLs to an existing identity's login stage.
func (p *Provider) ScriptPortal(identifier string, stage *models.LoginStage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.portals[identifier] = stage
}

// ScriptOAuth fixes the verification outcome for an OAuth method.
func (p *Provider) ScriptOAuth(method provider.OAuthMethod, script OAuthScript) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.oauth[method] = script
}

// FailWith makes the named operation return err on every call until
// cleared with a nil err.
func (p *Provider) FailWith(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.failures, op)
		return
	}
	p.failures[op] = err
}

// SetSessionActive forces session liveness, owned by accountID.
func (p *Provider) SetSessionActive(active bool, accountID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionActive = active
	p.sessionOwner = accountID
}

// SetNeedsWallet controls whether WaitForLogin reports a pending wallet
// creation stage.
func (p *Provider) SetNeedsWallet(needsWallet bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.needsWallet = needsWallet
}

// SetExportedSession overrides what ExportSession returns, including the
// empty string for corrupted-session scenarios.
func (p *Provider) SetExportedSession(serialized string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exportOverride = &serialized
}

// AccountByID looks up a seeded or created account. The devstack backend
// fake uses it to echo a profile for the session owner.
func (p *Provider) AccountByID(id string) (Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, account := range p.accounts {
		if account.ID == id {
			return *account, true
		}
	}
	return Account{}, false
}

// Calls reports how many times the named operation ran.
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *Provider) record(op string) error {
	p.calls[op]++
	return p.failures[op]
}

// ---------------------------------------------------------------------------
// provider.Identity
// ---------------------------------------------------------------------------

func (p *Provider) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record("Init")
}

func (p *Provider) SignUpOrLogIn(ctx context.Context, ident provider.Identifier) (*models.SignUpOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("SignUpOrLogIn"); err != nil {
		return nil, err
	}

	identifier := ident.Email
	if ident.Kind() == provider.KindPhone {
		identifier = ident.Phone
	}

	account, exists := p.accounts[identifier]
	if exists && account.Verified {
		login := p.portals[identifier]
		if login == nil {
			login = &models.LoginStage{}
		}
		return &models.SignUpOutcome{Stage: models.StageLogin, Login: login}, nil
	}

	if !exists {
		p.accounts[identifier] = &Account{ID: uuid.NewString(), Identifier: identifier}
	}
	p.pending = identifier

	verify := p.oneClicks[identifier]
	if verify == nil {
		verify = &models.VerifyStage{}
	}
	return &models.SignUpOutcome{Stage: models.StageVerify, Verify: verify}, nil
}

func (p *Provider) VerifyNewAccount(ctx context.Context, code string) (models.ProviderAuthContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("VerifyNewAccount"); err != nil {
		return nil, err
	}
	if p.pending == "" {
		return nil, &provider.Error{Message: "no verification in progress"}
	}
	account := p.accounts[p.pending]
	if account.Verified {
		return nil, &provider.Error{Message: fmt.Sprintf("User with identifier %s already exists", p.pending)}
	}
	if code != p.code {
		return nil, &provider.Error{Message: "invalid verification code", StatusCode: 400}
	}
	account.Verified = true
	return &AuthContext{AccountID: account.ID}, nil
}

func (p *Provider) ResendVerificationCode(ctx context.Context, kind provider.IdentifierKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("ResendVerificationCode"); err != nil {
		return err
	}
	if p.pending == "" {
		return &provider.Error{Message: "no verification in progress"}
	}
	return nil
}

func (p *Provider) RegisterPasskey(ctx context.Context, authContext models.ProviderAuthContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("RegisterPasskey"); err != nil {
		return err
	}
	verified, ok := authContext.(*AuthContext)
	if !ok {
		return &provider.Error{Message: "auth context was not produced by this provider"}
	}
	for _, account := range p.accounts {
		if account.ID == verified.AccountID {
			account.HasPasskey = true
			p.sessionActive = true
			p.sessionOwner = account.ID
			return nil
		}
	}
	return &provider.Error{Message: "unknown account"}
}

func (p *Provider) LoginWithPasskey(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("LoginWithPasskey"); err != nil {
		return err
	}
	for _, account := range p.accounts {
		if account.HasPasskey {
			p.sessionActive = true
			p.sessionOwner = account.ID
			return nil
		}
	}
	return &provider.Error{Message: "no passkey registered for this device"}
}

func (p *Provider) IsSessionActive(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("IsSessionActive"); err != nil {
		return false, err
	}
	return p.sessionActive, nil
}

func (p *Provider) KeepSessionAlive(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("KeepSessionAlive"); err != nil {
		return err
	}
	if !p.sessionActive {
		return &provider.Error{Message: "no session to extend"}
	}
	return nil
}

func (p *Provider) ExportSession(ctx context.Context, opts provider.ExportOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("ExportSession"); err != nil {
		return "", err
	}
	if p.exportOverride != nil {
		return *p.exportOverride, nil
	}
	if !p.sessionActive {
		return "", &provider.Error{Message: "no session to export"}
	}
	payload := map[string]any{"sessionId": uuid.NewString(), "userId": p.sessionOwner}
	if !opts.ExcludeSigners {
		payload["signers"] = []string{"device-key"}
	}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(serialized), nil
}

func (p *Provider) TouchSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("TouchSession"); err != nil {
		return err
	}
	if !p.sessionActive {
		return &provider.Error{Message: "no session to refresh"}
	}
	return nil
}

func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("Logout"); err != nil {
		return err
	}
	p.sessionActive = false
	p.sessionOwner = ""
	return nil
}

// The wait milestones complete immediately: the double has no real browser
// to wait on, and completing a wait is what establishes the session.

func (p *Provider) WaitForLogin(ctx context.Context) (models.LoginWaitResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("WaitForLogin"); err != nil {
		return models.LoginWaitResult{}, err
	}
	p.activateForPending()
	return models.LoginWaitResult{NeedsWallet: p.needsWallet}, nil
}

func (p *Provider) WaitForSignup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("WaitForSignup"); err != nil {
		return err
	}
	if account, ok := p.accounts[p.pending]; ok {
		account.Verified = true
	}
	p.activateForPending()
	return nil
}

func (p *Provider) WaitForWalletCreation(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record("WaitForWalletCreation")
}

// activateForPending marks the session live for the identity currently in
// flight. Caller holds the lock.
func (p *Provider) activateForPending() {
	p.sessionActive = true
	if account, ok := p.accounts[p.pending]; ok {
		p.sessionOwner = account.ID
	}
}

func (p *Provider) OAuthURL(ctx context.Context, method provider.OAuthMethod, appScheme string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("OAuthURL"); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://auth.invalid/oauth/%s?scheme=%s", method, appScheme), nil
}

func (p *Provider) VerifyOAuth(ctx context.Context, method provider.OAuthMethod) (*models.OAuthOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("VerifyOAuth"); err != nil {
		return nil, err
	}
	script, ok := p.oauth[method]
	if !ok {
		script = OAuthScript{IsNewUser: true}
	}
	return &models.OAuthOutcome{IsNewUser: script.IsNewUser, PasswordURL: script.PasswordURL}, nil
}

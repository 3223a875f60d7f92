// Package redirect drives browser-based auth sub-flows: opening a provider
// URL in the system browser and blocking on the provider's completion
// milestones.
package redirect

import (
	"context"
	"net/url"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// Browser launches a system browser authentication session and resolves
// when it reports success, cancel, or dismiss. The mobile shells implement
// this; tests inject doubles.
type Browser interface {
	OpenAuthSession(ctx context.Context, authURL, callbackScheme string) (Result, error)
}

// Result reports how the browser session ended.
type Result struct {
	Completed bool
}

// Query parameters appended so the provider's web flow hands control back
// to the app. Project constants, pinned by tests.
const (
	paramNativeCallback = "nativeCallback"
	paramCallbackScheme = "callbackScheme"
)

// Coordinator opens provider URLs and waits on provider-reported
// milestones. Wait errors propagate unchanged; the calling strategy decides
// how to react.
type Coordinator struct {
	browser   Browser
	identity  provider.Identity
	appScheme string
}

func NewCoordinator(browser Browser, identity provider.Identity, appScheme string) *Coordinator {
	return &Coordinator{browser: browser, identity: identity, appScheme: appScheme}
}

// AppScheme returns the app URL scheme browser flows redirect back to.
func (c *Coordinator) AppScheme() string { return c.appScheme }

// Open appends the native callback parameters to rawURL and launches the
// browser session. Browser errors (including cancellation) pass through
// unwrapped.
func (c *Coordinator) Open(ctx context.Context, rawURL string) (Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeProtocol, "provider returned an unparseable portal URL")
	}
	query := parsed.Query()
	query.Set(paramNativeCallback, "true")
	query.Set(paramCallbackScheme, c.appScheme)
	parsed.RawQuery = query.Encode()

	return c.browser.OpenAuthSession(ctx, parsed.String(), c.appScheme)
}

// WaitForLogin blocks until the provider reports login complete.
func (c *Coordinator) WaitForLogin(ctx context.Context) (models.LoginWaitResult, error) {
	return c.identity.WaitForLogin(ctx)
}

// WaitForSignup blocks until the provider reports signup complete.
func (c *Coordinator) WaitForSignup(ctx context.Context) error {
	return c.identity.WaitForSignup(ctx)
}

// WaitForWalletCreation blocks until the provider reports the wallet
// creation stage complete.
func (c *Coordinator) WaitForWalletCreation(ctx context.Context) error {
	return c.identity.WaitForWalletCreation(ctx)
}

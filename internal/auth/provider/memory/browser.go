package memory

import (
	"context"
	"sync"

	"remitauth/internal/auth/redirect"
)

// Browser is a redirect.Browser double that completes every auth session
// immediately. It records the opened URLs so tests can assert on the
// callback parameters, and can script a cancel or an error.
type Browser struct {
	mu        sync.Mutex
	opened    []string
	cancelled bool
	err       error
}

func NewBrowser() *Browser {
	return &Browser{}
}

// Cancel makes subsequent sessions end as user-cancelled.
func (b *Browser) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelled = true
}

// FailWith makes subsequent sessions return err.
func (b *Browser) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Opened returns the URLs launched so far.
func (b *Browser) Opened() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.opened...)
}

func (b *Browser) OpenAuthSession(ctx context.Context, authURL, callbackScheme string) (redirect.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, authURL)
	if b.err != nil {
		return redirect.Result{}, b.err
	}
	if b.cancelled {
		return redirect.Result{Completed: false}, nil
	}
	return redirect.Result{Completed: true}, nil
}

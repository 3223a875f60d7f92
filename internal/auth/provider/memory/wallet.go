package memory

import (
	"context"
	"sync"
)

// Wallet is the in-process wallet provider double.
type Wallet struct {
	mu             sync.Mutex
	initErr        error
	provisionCalls int
	provisioned    bool
	provisionFn    func() error
}

func NewWallet() *Wallet {
	return &Wallet{}
}

// FailInit scripts initialization failure.
func (w *Wallet) FailInit(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.initErr = err
}

// FailProvision scripts provisioning failure.
func (w *Wallet) FailProvision(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err == nil {
		w.provisionFn = nil
		return
	}
	w.provisionFn = func() error { return err }
}

// Provisioned reports whether provisioning ran successfully.
func (w *Wallet) Provisioned() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.provisioned
}

// ProvisionCalls reports how many times provisioning was attempted.
func (w *Wallet) ProvisionCalls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.provisionCalls
}

func (w *Wallet) Init(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initErr
}

func (w *Wallet) ProvisionForCurrentUser(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.provisionCalls++
	if w.provisionFn != nil {
		return w.provisionFn()
	}
	w.provisioned = true
	return nil
}

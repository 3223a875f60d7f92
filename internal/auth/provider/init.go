package provider

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// InitializeAll initializes the identity and wallet providers concurrently
// at app start. Both run to completion independently; the aggregate call
// fails if either does.
func InitializeAll(ctx context.Context, identity Identity, wallet Wallet) error {
	// Plain Group, not WithContext: a failure in one provider must not
	// cancel the other's initialization.
	var group errgroup.Group
	group.Go(func() error {
		return identity.Init(ctx)
	})
	group.Go(func() error {
		return wallet.Init(ctx)
	})
	return group.Wait()
}

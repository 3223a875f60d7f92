package para

import (
	"context"
	"net/http"
)

// Wallet is the hosted implementation of provider.Wallet. Key management
// lives entirely on the provider side; this only triggers provisioning.
type Wallet struct {
	client *Client
}

func NewWallet(client *Client) *Wallet {
	return &Wallet{client: client}
}

func (w *Wallet) Init(ctx context.Context) error {
	return w.client.do(ctx, w.client.httpClient, http.MethodPost, "/v1/wallets/init", nil, nil)
}

func (w *Wallet) ProvisionForCurrentUser(ctx context.Context) error {
	return w.client.do(ctx, w.client.httpClient, http.MethodPost, "/v1/wallets/provision", nil, nil)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ProviderMock, cfg.IdentityProvider)
	assert.Equal(t, ProviderMock, cfg.WalletProvider)
	assert.Equal(t, "http://localhost:8091", cfg.ProviderBaseURL)
	assert.Equal(t, "http://localhost:8091", cfg.BackendBaseURL)
	assert.Equal(t, "remit", cfg.AppScheme)
	assert.Equal(t, ":8091", cfg.DevstackAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("REMITAUTH_IDENTITY_PROVIDER", "para")
	t.Setenv("REMITAUTH_WALLET_PROVIDER", "para")
	t.Setenv("REMITAUTH_PROVIDER_URL", "https://provider.example")
	t.Setenv("REMITAUTH_PROVIDER_API_KEY", "key-123")
	t.Setenv("REMITAUTH_BACKEND_URL", "https://backend.example")
	t.Setenv("REMITAUTH_APP_SCHEME", "wallet")

	cfg := FromEnv()

	assert.Equal(t, ProviderPara, cfg.IdentityProvider)
	assert.Equal(t, ProviderPara, cfg.WalletProvider)
	assert.Equal(t, "https://provider.example", cfg.ProviderBaseURL)
	assert.Equal(t, "key-123", cfg.ProviderAPIKey)
	assert.Equal(t, "https://backend.example", cfg.BackendBaseURL)
	assert.Equal(t, "wallet", cfg.AppScheme)
}

func TestFromEnv_UnknownProviderKindFallsBackToMock(t *testing.T) {
	t.Setenv("REMITAUTH_IDENTITY_PROVIDER", "something-else")
	assert.Equal(t, ProviderMock, FromEnv().IdentityProvider)
}

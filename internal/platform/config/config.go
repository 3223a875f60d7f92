package config

import "os"

// ProviderKind selects a provider implementation by name.
type ProviderKind string

const (
	ProviderPara ProviderKind = "para"
	ProviderMock ProviderKind = "mock"
)

// Auth captures the wiring configuration for the auth core: which provider
// implementations to use and where the external collaborators live.
type Auth struct {
	IdentityProvider ProviderKind
	WalletProvider   ProviderKind

	ProviderBaseURL string
	ProviderAPIKey  string
	BackendBaseURL  string
	AppScheme       string

	// Devstack settings, used only by cmd/devstack.
	DevstackAddr       string
	DevstackSigningKey string
}

// FromEnv builds an Auth config from environment variables so main stays
// lean. Defaults target the local devstack.
func FromEnv() Auth {
	return Auth{
		IdentityProvider: kindFromEnv("REMITAUTH_IDENTITY_PROVIDER"),
		WalletProvider:   kindFromEnv("REMITAUTH_WALLET_PROVIDER"),
		ProviderBaseURL:  envOr("REMITAUTH_PROVIDER_URL", "http://localhost:8091"),
		ProviderAPIKey:   os.Getenv("REMITAUTH_PROVIDER_API_KEY"),
		BackendBaseURL:   envOr("REMITAUTH_BACKEND_URL", "http://localhost:8091"),
		AppScheme:        envOr("REMITAUTH_APP_SCHEME", "remit"),

		DevstackAddr:       envOr("REMITAUTH_DEVSTACK_ADDR", ":8091"),
		DevstackSigningKey: envOr("REMITAUTH_DEVSTACK_SIGNING_KEY", "devstack-dev-secret"),
	}
}

func kindFromEnv(name string) ProviderKind {
	if os.Getenv(name) == string(ProviderPara) {
		return ProviderPara
	}
	return ProviderMock
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

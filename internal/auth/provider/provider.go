// Package provider defines the ports to the external identity and wallet
// providers. Implementations live in subpackages: para (hosted API) and
// memory (in-process double). Services depend on these interfaces only, so
// provider selection is a wiring concern, not a business-logic branch.
package provider

import (
	"context"

	"remitauth/internal/auth/models"
)

// IdentifierKind names the sign-in identifier family, used for diagnostics
// and error tagging.
type IdentifierKind string

const (
	KindEmail IdentifierKind = "email"
	KindPhone IdentifierKind = "phone"
	KindOAuth IdentifierKind = "oauth"
)

// OAuthMethod is a supported third-party OAuth provider.
type OAuthMethod string

const (
	OAuthGoogle OAuthMethod = "google"
	OAuthApple  OAuthMethod = "apple"
)

// Identifier is the input to the combined sign-up-or-login entry point.
// Exactly one field is set.
type Identifier struct {
	Email string
	Phone string
	OAuth OAuthMethod
}

// Kind returns the identifier family of the populated field.
func (i Identifier) Kind() IdentifierKind {
	switch {
	case i.Email != "":
		return KindEmail
	case i.Phone != "":
		return KindPhone
	default:
		return KindOAuth
	}
}

// ExportOptions controls session serialization. ExcludeSigners strips
// signing capability; the backend never needs it.
type ExportOptions struct {
	ExcludeSigners bool
}

// Identity is the identity-provider contract this core orchestrates. All
// methods are network-bound on the hosted implementation; the Wait* methods
// additionally block until the provider reports the named browser milestone.
type Identity interface {
	Init(ctx context.Context) error

	SignUpOrLogIn(ctx context.Context, ident Identifier) (*models.SignUpOutcome, error)
	VerifyNewAccount(ctx context.Context, code string) (models.ProviderAuthContext, error)
	ResendVerificationCode(ctx context.Context, kind IdentifierKind) error

	RegisterPasskey(ctx context.Context, authContext models.ProviderAuthContext) error
	LoginWithPasskey(ctx context.Context) error

	IsSessionActive(ctx context.Context) (bool, error)
	KeepSessionAlive(ctx context.Context) error
	ExportSession(ctx context.Context, opts ExportOptions) (string, error)
	TouchSession(ctx context.Context) error
	Logout(ctx context.Context) error

	WaitForLogin(ctx context.Context) (models.LoginWaitResult, error)
	WaitForSignup(ctx context.Context) error
	WaitForWalletCreation(ctx context.Context) error

	OAuthURL(ctx context.Context, method OAuthMethod, appScheme string) (string, error)
	VerifyOAuth(ctx context.Context, method OAuthMethod) (*models.OAuthOutcome, error)
}

// Wallet is the wallet-provider capability this core touches: provisioning
// after the OAuth new-user path. Key management stays inside the provider.
type Wallet interface {
	Init(ctx context.Context) error
	ProvisionForCurrentUser(ctx context.Context) error
}

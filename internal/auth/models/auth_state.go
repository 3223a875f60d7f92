// Package models holds the data types shared across the auth core: sign-in
// outcomes, provider stage payloads, and the backend session shape.
package models

// AuthStateKind discriminates the variants of AuthState. Exactly one
// variant's payload is populated for any given value.
type AuthStateKind string

const (
	// StateNeedsVerification: the user must supply a one-time code.
	StateNeedsVerification AuthStateKind = "needs_verification"
	// StateRedirectRequired: a browser sub-flow must complete first.
	StateRedirectRequired AuthStateKind = "redirect_required"
	// StateCredentialLoginRequired: an existing, verified identity with no
	// portal URL; the caller proceeds with native credential login.
	StateCredentialLoginRequired AuthStateKind = "credential_login_required"
	// StateAuthenticated: terminal success, backend session in hand.
	StateAuthenticated AuthStateKind = "authenticated"
)

// CompletionKind names the browser sub-flow a redirect completes.
type CompletionKind string

const (
	CompletionLogin  CompletionKind = "login"
	CompletionSignup CompletionKind = "signup"
)

// ProviderAuthContext is the identity provider's opaque verified-identity
// handle. It is produced by code verification, required for passkey
// registration, and never inspected by this core.
type ProviderAuthContext any

// AuthState is the result of a sign-in attempt. Construct values with the
// New* helpers so the one-variant invariant holds by construction;
// Authenticated always carries user and token together.
type AuthState struct {
	Kind AuthStateKind

	// NeedsVerification payload.
	Identifier      string
	ProviderContext ProviderAuthContext

	// RedirectRequired payload.
	RedirectURL           string
	Completion            CompletionKind
	PostSignupAuthMethods []string

	// Authenticated payload.
	User                *UserProfile
	BackendSessionToken string
}

func NewNeedsVerification(identifier string, providerContext ProviderAuthContext) *AuthState {
	return &AuthState{
		Kind:            StateNeedsVerification,
		Identifier:      identifier,
		ProviderContext: providerContext,
	}
}

func NewRedirectRequired(url string, completion CompletionKind, postSignupAuthMethods []string) *AuthState {
	return &AuthState{
		Kind:                  StateRedirectRequired,
		RedirectURL:           url,
		Completion:            completion,
		PostSignupAuthMethods: postSignupAuthMethods,
	}
}

func NewCredentialLoginRequired(identifier string) *AuthState {
	return &AuthState{Kind: StateCredentialLoginRequired, Identifier: identifier}
}

func NewAuthenticated(user *UserProfile, backendSessionToken string) *AuthState {
	return &AuthState{
		Kind:                StateAuthenticated,
		User:                user,
		BackendSessionToken: backendSessionToken,
	}
}

// Authenticated reports whether the state is terminal success.
func (s *AuthState) Authenticated() bool {
	return s != nil && s.Kind == StateAuthenticated
}

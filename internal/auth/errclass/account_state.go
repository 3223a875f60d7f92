package errclass

import "strings"

// Documented provider message contracts. Case-sensitive on purpose: the
// upstream SDK emits these verbatim and tests pin them as contracts.
const (
	fragmentAlreadyExists   = "already exists"
	fragmentAlreadyVerified = "already verified"

	fragmentNotAssociated = "not associated with domain"
	fragmentAppIdentifier = "Application with identifier"
)

// IsAccountExists reports whether err is the provider's "this identity is
// already registered/verified" rejection, which triggers the verification
// recovery ladder instead of surfacing to the UI.
func IsAccountExists(err error) bool {
	if err == nil {
		return false
	}
	msg := Extract(err).Message
	return strings.Contains(msg, fragmentAlreadyExists) ||
		strings.Contains(msg, fragmentAlreadyVerified)
}

// IsPasskeyConfigError reports whether err means this app is not registered
// for native credentials with the identity provider. Distinct from ordinary
// credential failure: the fix is provider-side setup, not a retry.
func IsPasskeyConfigError(err error) bool {
	if err == nil {
		return false
	}
	msg := Extract(err).Message
	return strings.Contains(msg, fragmentNotAssociated) ||
		strings.Contains(msg, fragmentAppIdentifier)
}

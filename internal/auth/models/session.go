package models

import "time"

// UserProfile is the backend's view of the signed-in user. This core passes
// it through untouched; the shape is owned by the backend.
type UserProfile struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	AuthProvider       string `json:"authProvider,omitempty"`
	VerificationStatus string `json:"verificationStatus,omitempty"`
	IsVerified         bool   `json:"isVerified,omitempty"`
}

// BackendSession is the result of exchanging a live provider session with
// the backend. Ownership transfers to the caller on return; this core never
// stores it.
type BackendSession struct {
	Token     string
	User      UserProfile
	ExpiresAt time.Time
}

// VerificationResult reports code verification or credential completion.
//
// Invariant: Success implies either AuthContext is populated (verified, not
// yet credentialed) or both User and BackendSessionToken are (fully signed
// in). Success=false carries nothing further; it is the soft-failure
// contract for ordinary credential failures.
type VerificationResult struct {
	Success             bool
	AuthContext         ProviderAuthContext
	User                *UserProfile
	BackendSessionToken string
}

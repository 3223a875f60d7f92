package models

// Stage is the identity provider's reported position in its sign-up/login
// machine. Anything outside the known set is a protocol error, decoded at
// the provider boundary rather than guessed at downstream.
type Stage string

const (
	StageVerify Stage = "verify"
	StageLogin  Stage = "login"
	StageSignup Stage = "signup"
)

// AuthMethodBasicLogin is the provider's name for password-based signup.
// Its presence in a signup's auth methods means wallet creation happens as
// an extra browser stage after signup completes.
const AuthMethodBasicLogin = "BASIC_LOGIN"

// SignUpOutcome is the provider's response to the combined
// sign-up-or-login call, decoded into one populated variant per stage.
type SignUpOutcome struct {
	Stage  Stage
	Verify *VerifyStage
	Login  *LoginStage
}

// VerifyStage: a new or unverified identity. A present LoginURL means the
// one-click browser flow replaces code entry.
type VerifyStage struct {
	LoginURL          string
	NextStage         Stage
	SignupAuthMethods []string
}

// LoginStage: an existing, verified identity. Portal URLs are optional;
// when none is present the caller logs in with a native credential.
type LoginStage struct {
	PasskeyURL  string
	PasswordURL string
	PinURL      string
}

// PortalURL returns the preferred portal in priority order, or "" when the
// identity has no portal (native credential login).
func (l *LoginStage) PortalURL() string {
	switch {
	case l == nil:
		return ""
	case l.PasskeyURL != "":
		return l.PasskeyURL
	case l.PasswordURL != "":
		return l.PasswordURL
	default:
		return l.PinURL
	}
}

// OAuthOutcome is the server-side verdict on a completed OAuth browser
// session. IsNewUser is authoritative; the provider's stage values are
// documented as unreliable for OAuth.
type OAuthOutcome struct {
	IsNewUser   bool
	PasswordURL string
}

// LoginWaitResult reports the wait-for-login milestone. NeedsWallet means
// the account still requires the wallet-creation browser stage.
type LoginWaitResult struct {
	NeedsWallet bool
}

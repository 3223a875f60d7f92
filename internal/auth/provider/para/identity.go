package para

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// Identity is the hosted implementation of provider.Identity.
type Identity struct {
	client *Client
}

func NewIdentity(client *Client) *Identity {
	return &Identity{client: client}
}

func (p *Identity) Init(ctx context.Context) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/init", nil, nil)
}

// signUpOrLogInWire is the provider's loosely-shaped response. Decoding
// into the per-stage union happens here and nowhere else.
type signUpOrLogInWire struct {
	Stage             string   `json:"stage"`
	LoginURL          string   `json:"loginUrl"`
	PasskeyURL        string   `json:"passkeyUrl"`
	PasswordURL       string   `json:"passwordUrl"`
	PinURL            string   `json:"pinUrl"`
	NextStage         string   `json:"nextStage"`
	SignupAuthMethods []string `json:"signupAuthMethods"`
}

func (p *Identity) SignUpOrLogIn(ctx context.Context, ident provider.Identifier) (*models.SignUpOutcome, error) {
	body := map[string]string{}
	switch ident.Kind() {
	case provider.KindEmail:
		body["email"] = ident.Email
	case provider.KindPhone:
		body["phone"] = ident.Phone
	default:
		body["oauthMethod"] = string(ident.OAuth)
	}

	var wire signUpOrLogInWire
	if err := p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/auth/sign-up-or-login", body, &wire); err != nil {
		return nil, err
	}
	return decodeOutcome(wire)
}

func decodeOutcome(wire signUpOrLogInWire) (*models.SignUpOutcome, error) {
	switch models.Stage(wire.Stage) {
	case models.StageVerify:
		return &models.SignUpOutcome{
			Stage: models.StageVerify,
			Verify: &models.VerifyStage{
				LoginURL:          wire.LoginURL,
				NextStage:         models.Stage(wire.NextStage),
				SignupAuthMethods: wire.SignupAuthMethods,
			},
		}, nil
	case models.StageLogin:
		return &models.SignUpOutcome{
			Stage: models.StageLogin,
			Login: &models.LoginStage{
				PasskeyURL:  wire.PasskeyURL,
				PasswordURL: wire.PasswordURL,
				PinURL:      wire.PinURL,
			},
		}, nil
	default:
		return nil, dErrors.New(dErrors.CodeProtocol,
			fmt.Sprintf("provider returned unknown stage %q", wire.Stage))
	}
}

// VerifyNewAccount submits the one-time code. The returned auth state is
// opaque to callers: raw JSON held for the passkey registration call.
func (p *Identity) VerifyNewAccount(ctx context.Context, code string) (models.ProviderAuthContext, error) {
	var wire struct {
		AuthState json.RawMessage `json:"authState"`
	}
	err := p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/auth/verify",
		map[string]string{"code": code}, &wire)
	if err != nil {
		return nil, err
	}
	return wire.AuthState, nil
}

func (p *Identity) ResendVerificationCode(ctx context.Context, kind provider.IdentifierKind) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/auth/resend",
		map[string]string{"type": string(kind)}, nil)
}

func (p *Identity) RegisterPasskey(ctx context.Context, authContext models.ProviderAuthContext) error {
	raw, ok := authContext.(json.RawMessage)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "auth context was not produced by this provider")
	}
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/passkeys/register",
		map[string]json.RawMessage{"authState": raw}, nil)
}

func (p *Identity) LoginWithPasskey(ctx context.Context) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/passkeys/login", nil, nil)
}

func (p *Identity) IsSessionActive(ctx context.Context) (bool, error) {
	var wire struct {
		Active bool `json:"active"`
	}
	if err := p.client.do(ctx, p.client.httpClient, http.MethodGet, "/v1/sessions/current", nil, &wire); err != nil {
		return false, err
	}
	return wire.Active, nil
}

func (p *Identity) KeepSessionAlive(ctx context.Context) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/sessions/keep-alive", nil, nil)
}

func (p *Identity) ExportSession(ctx context.Context, opts provider.ExportOptions) (string, error) {
	var wire struct {
		Session string `json:"session"`
	}
	err := p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/sessions/export",
		map[string]bool{"excludeSigners": opts.ExcludeSigners}, &wire)
	if err != nil {
		return "", err
	}
	return wire.Session, nil
}

func (p *Identity) TouchSession(ctx context.Context) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/sessions/touch", nil, nil)
}

func (p *Identity) Logout(ctx context.Context) error {
	return p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/sessions/logout", nil, nil)
}

// The wait endpoints long-poll until the provider records the milestone,
// so they go through the unbounded transport.

func (p *Identity) WaitForLogin(ctx context.Context) (models.LoginWaitResult, error) {
	var wire struct {
		NeedsWallet bool `json:"needsWallet"`
	}
	if err := p.client.do(ctx, p.client.waitClient, http.MethodGet, "/v1/waits/login", nil, &wire); err != nil {
		return models.LoginWaitResult{}, err
	}
	return models.LoginWaitResult{NeedsWallet: wire.NeedsWallet}, nil
}

func (p *Identity) WaitForSignup(ctx context.Context) error {
	return p.client.do(ctx, p.client.waitClient, http.MethodGet, "/v1/waits/signup", nil, nil)
}

func (p *Identity) WaitForWalletCreation(ctx context.Context) error {
	return p.client.do(ctx, p.client.waitClient, http.MethodGet, "/v1/waits/wallet", nil, nil)
}

func (p *Identity) OAuthURL(ctx context.Context, method provider.OAuthMethod, appScheme string) (string, error) {
	var wire struct {
		URL string `json:"url"`
	}
	path := "/v1/oauth/url?" + url.Values{
		"method":    {string(method)},
		"appScheme": {appScheme},
	}.Encode()
	if err := p.client.do(ctx, p.client.httpClient, http.MethodGet, path, nil, &wire); err != nil {
		return "", err
	}
	return wire.URL, nil
}

func (p *Identity) VerifyOAuth(ctx context.Context, method provider.OAuthMethod) (*models.OAuthOutcome, error) {
	var wire struct {
		IsNewUser   bool   `json:"isNewUser"`
		PasswordURL string `json:"passwordUrl"`
	}
	err := p.client.do(ctx, p.client.httpClient, http.MethodPost, "/v1/oauth/verify",
		map[string]string{"method": string(method)}, &wire)
	if err != nil {
		return nil, err
	}
	return &models.OAuthOutcome{IsNewUser: wire.IsNewUser, PasswordURL: wire.PasswordURL}, nil
}

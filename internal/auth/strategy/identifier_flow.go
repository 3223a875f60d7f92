package strategy

import (
	"context"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
)

// identifierFlow is the stage machine shared by the email and phone
// strategies. Each strategy normalizes its identifier and delegates here.
type identifierFlow struct {
	kind     provider.IdentifierKind
	identity provider.Identity
	runner   *FlowRunner
}

func (f *identifierFlow) run(ctx context.Context, ident provider.Identifier, display string) (*models.AuthState, error) {
	outcome, err := f.identity.SignUpOrLogIn(ctx, ident)
	if err != nil {
		return nil, classify(f.kind, err)
	}

	switch outcome.Stage {
	case models.StageVerify:
		if outcome.Verify == nil {
			return nil, unexpectedStage(outcome.Stage)
		}
		state, err := f.verifyStage(ctx, outcome.Verify, display)
		if err != nil {
			return nil, classify(f.kind, err)
		}
		return state, nil

	case models.StageLogin:
		if outcome.Login == nil {
			return nil, unexpectedStage(outcome.Stage)
		}
		state, err := f.loginStage(ctx, outcome.Login, display)
		if err != nil {
			return nil, classify(f.kind, err)
		}
		return state, nil

	default:
		return nil, unexpectedStage(outcome.Stage)
	}
}

// verifyStage handles a new or unverified identity. Without a login URL the
// user types a code; with one, the browser one-click flow completes the
// whole signup or login before the app sees the session.
func (f *identifierFlow) verifyStage(ctx context.Context, verify *models.VerifyStage, display string) (*models.AuthState, error) {
	if verify.LoginURL == "" {
		return models.NewNeedsVerification(display, nil), nil
	}

	if err := f.runner.OpenAndConfirm(ctx, verify.LoginURL); err != nil {
		return nil, err
	}

	switch verify.NextStage {
	case models.StageLogin:
		return f.runner.FinishLogin(ctx)
	case models.StageSignup:
		return f.runner.FinishSignup(ctx, verify.SignupAuthMethods)
	default:
		return nil, unexpectedStage(verify.NextStage)
	}
}

// loginStage handles an existing, verified identity. A portal URL means a
// browser login; no portal means the caller proceeds with the native
// credential path.
func (f *identifierFlow) loginStage(ctx context.Context, login *models.LoginStage, display string) (*models.AuthState, error) {
	portal := login.PortalURL()
	if portal == "" {
		return models.NewCredentialLoginRequired(display), nil
	}
	if err := f.runner.OpenAndConfirm(ctx, portal); err != nil {
		return nil, err
	}
	return f.runner.FinishLogin(ctx)
}

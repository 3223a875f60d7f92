package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitauth/internal/auth/models"
	"remitauth/internal/platform/config"
)

type fakeImporter struct{}

func (fakeImporter) ImportSession(ctx context.Context, serializedSession string) (*models.BackendSession, error) {
	return &models.BackendSession{
		Token:     "backend-token",
		User:      models.UserProfile{ID: "user-1"},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func mockConfig() config.Auth {
	return config.Auth{
		IdentityProvider: config.ProviderMock,
		WalletProvider:   config.ProviderMock,
		BackendBaseURL:   "http://localhost:8091",
		AppScheme:        "remit",
	}
}

func TestBuild_MockProviders(t *testing.T) {
	svc, err := Build(mockConfig(), WithImporter(fakeImporter{}))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	state, err := svc.SignUpOrLogInWithEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StateNeedsVerification, state.Kind)
}

func TestBuild_ParaIdentityRequiresBrowser(t *testing.T) {
	cfg := mockConfig()
	cfg.IdentityProvider = config.ProviderPara
	cfg.ProviderBaseURL = "http://localhost:8091"

	_, err := Build(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser")
}

func TestBuild_FullFlowAgainstMockStack(t *testing.T) {
	svc, err := Build(mockConfig(), WithImporter(fakeImporter{}))
	require.NoError(t, err)
	ctx := context.Background()

	state, err := svc.SignUpOrLogInWithEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.Equal(t, models.StateNeedsVerification, state.Kind)

	result, err := svc.VerifyNewAccount(ctx, "123456")
	require.NoError(t, err)
	require.True(t, result.Success)

	registered, err := svc.RegisterPasskey(ctx, result.AuthContext)
	require.NoError(t, err)
	assert.True(t, registered.Success)
	assert.True(t, svc.IsSessionActive(ctx))
}

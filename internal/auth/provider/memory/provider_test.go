package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitauth/internal/auth/provider"
)

var (
	_ provider.Identity = (*Provider)(nil)
	_ provider.Wallet   = (*Wallet)(nil)
)

func TestExportSessionShape(t *testing.T) {
	ctx := context.Background()
	p := New()
	accountID := p.SeedVerifiedAccount("user@example.com", false)
	p.SetSessionActive(true, accountID)

	t.Run("signers excluded on request", func(t *testing.T) {
		serialized, err := p.ExportSession(ctx, provider.ExportOptions{ExcludeSigners: true})
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(serialized), &payload))
		assert.Equal(t, accountID, payload["userId"])
		assert.NotContains(t, payload, "signers")
	})

	t.Run("signers included by default", func(t *testing.T) {
		serialized, err := p.ExportSession(ctx, provider.ExportOptions{})
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(serialized), &payload))
		assert.Contains(t, payload, "signers")
	})
}

func TestLogoutEndsTheSession(t *testing.T) {
	ctx := context.Background()
	p := New()
	accountID := p.SeedVerifiedAccount("user@example.com", false)
	p.SetSessionActive(true, accountID)

	require.NoError(t, p.Logout(ctx))

	active, err := p.IsSessionActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = p.ExportSession(ctx, provider.ExportOptions{})
	assert.Error(t, err)
}

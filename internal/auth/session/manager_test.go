package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"remitauth/internal/auth/models"
	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/provider/memory"
	"remitauth/internal/auth/session/mocks"
	dErrors "remitauth/pkg/domain-errors"
)

type ManagerSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	identity *memory.Provider
	importer *mocks.MockImporter
	manager  *Manager
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.identity = memory.New()
	s.importer = mocks.NewMockImporter(s.ctrl)

	manager, err := NewManager(s.identity, s.importer)
	s.Require().NoError(err)
	s.manager = manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) TestConstruction() {
	s.Run("nil identity is rejected", func() {
		_, err := NewManager(nil, s.importer)
		s.Error(err)
	})

	s.Run("nil importer is rejected", func() {
		_, err := NewManager(s.identity, nil)
		s.Error(err)
	})
}

func (s *ManagerSuite) TestLivenessFailsSoft() {
	ctx := context.Background()

	s.Run("provider error reads as inactive", func() {
		s.identity.FailWith("IsSessionActive", &provider.Error{Message: "network unreachable"})
		defer s.identity.FailWith("IsSessionActive", nil)

		s.False(s.manager.IsActive(ctx))
	})

	s.Run("active session reads as active", func() {
		s.identity.SetSessionActive(true, "user-1")
		s.True(s.manager.IsActive(ctx))
	})

	s.Run("keep-alive error reads as not extended", func() {
		s.identity.SetSessionActive(true, "user-1")
		s.identity.FailWith("KeepSessionAlive", &provider.Error{Message: "timeout"})
		defer s.identity.FailWith("KeepSessionAlive", nil)

		s.False(s.manager.KeepAlive(ctx))
	})

	s.Run("keep-alive succeeds on a live session", func() {
		s.identity.SetSessionActive(true, "user-1")
		s.True(s.manager.KeepAlive(ctx))
	})
}

func (s *ManagerSuite) TestSerializeFailsHard() {
	ctx := context.Background()

	s.identity.FailWith("ExportSession", &provider.Error{Message: "export broke"})
	_, err := s.manager.Serialize(ctx, true)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ManagerSuite) TestTouchWrapsProviderError() {
	s.identity.FailWith("TouchSession", &provider.Error{Message: "no session"})

	err := s.manager.Touch(context.Background())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(err.Error(), "failed to refresh session after redirect")
}

func (s *ManagerSuite) TestImportToBackend() {
	ctx := context.Background()

	s.Run("inactive session never reaches the backend", func() {
		_, err := s.manager.ImportToBackend(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("Cannot export session: session is not active", err.Error())
	})

	s.Run("export error propagates", func() {
		s.identity.SetSessionActive(true, "user-1")
		s.identity.FailWith("ExportSession", &provider.Error{Message: "boom"})
		defer s.identity.FailWith("ExportSession", nil)

		_, err := s.manager.ImportToBackend(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("live session is exported without signers and imported", func() {
		accountID := s.identity.SeedVerifiedAccount("user@example.com", false)
		s.identity.SetSessionActive(true, accountID)

		backendSession := &models.BackendSession{
			Token:     "backend-token",
			User:      models.UserProfile{ID: accountID, Email: "user@example.com"},
			ExpiresAt: time.Now().Add(time.Hour),
		}
		var serialized string
		s.importer.EXPECT().
			ImportSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session string) (*models.BackendSession, error) {
				serialized = session
				return backendSession, nil
			})

		got, err := s.manager.ImportToBackend(ctx)
		s.Require().NoError(err)
		s.Equal("backend-token", got.Token)
		s.Equal(accountID, got.User.ID)
		s.Contains(serialized, accountID)
		s.NotContains(serialized, "signers")
	})

	s.Run("importer failure propagates", func() {
		accountID := s.identity.SeedVerifiedAccount("user@example.com", false)
		s.identity.SetSessionActive(true, accountID)
		importErr := dErrors.New(dErrors.CodeTransport, "backend down")
		s.importer.EXPECT().ImportSession(gomock.Any(), gomock.Any()).Return(nil, importErr)

		_, err := s.manager.ImportToBackend(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTransport))
	})

	s.Run("blank serialized session is refused before the network", func() {
		s.identity.SetSessionActive(true, "user-1")
		s.identity.SetExportedSession("   ")

		_, err := s.manager.ImportToBackend(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// Package devstack hosts local fakes of the two external collaborators:
// the identity provider's REST API and the backend session-import
// endpoint. It lets the auth core run end to end with the para client
// pointed at localhost, no vendor account required.
package devstack

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"remitauth/internal/auth/provider"
	"remitauth/internal/auth/provider/memory"
)

// Server serves the fake provider API backed by the in-memory provider and
// the backend import endpoint backed by Backend.
type Server struct {
	identity *memory.Provider
	backend  *Backend
	logger   *slog.Logger
}

func NewServer(identity *memory.Provider, backend *Backend, logger *slog.Logger) *Server {
	return &Server{identity: identity, backend: backend, logger: logger}
}

// Router wires the provider API under /v1 and the backend endpoint at its
// production path.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/init", s.handleOK)
		r.Post("/auth/sign-up-or-login", s.handleSignUpOrLogIn)
		r.Post("/auth/verify", s.handleVerify)
		r.Post("/auth/resend", s.handleResend)
		r.Post("/passkeys/register", s.handleRegisterPasskey)
		r.Post("/passkeys/login", s.handleLoginPasskey)
		r.Get("/sessions/current", s.handleSessionCurrent)
		r.Post("/sessions/keep-alive", s.handleKeepAlive)
		r.Post("/sessions/export", s.handleExport)
		r.Post("/sessions/touch", s.handleTouch)
		r.Post("/sessions/logout", s.handleLogout)
		r.Get("/waits/login", s.handleWaitLogin)
		r.Get("/waits/signup", s.handleWaitSignup)
		r.Get("/waits/wallet", s.handleWaitWallet)
		r.Get("/oauth/url", s.handleOAuthURL)
		r.Post("/oauth/verify", s.handleOAuthVerify)
		r.Post("/wallets/init", s.handleOK)
		r.Post("/wallets/provision", s.handleOK)
	})

	r.Post("/auth/session/import", s.backend.HandleImport)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("devstack request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSignUpOrLogIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		OAuthMethod string `json:"oauthMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	outcome, err := s.identity.SignUpOrLogIn(r.Context(), provider.Identifier{
		Email: req.Email,
		Phone: req.Phone,
		OAuth: provider.OAuthMethod(req.OAuthMethod),
	})
	if err != nil {
		writeProviderError(w, err)
		return
	}

	// Flatten the stage union back into the provider's wire shape.
	resp := map[string]any{"stage": string(outcome.Stage)}
	if outcome.Verify != nil {
		resp["loginUrl"] = outcome.Verify.LoginURL
		resp["nextStage"] = string(outcome.Verify.NextStage)
		resp["signupAuthMethods"] = outcome.Verify.SignupAuthMethods
	}
	if outcome.Login != nil {
		resp["passkeyUrl"] = outcome.Login.PasskeyURL
		resp["passwordUrl"] = outcome.Login.PasswordURL
		resp["pinUrl"] = outcome.Login.PinURL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	authContext, err := s.identity.VerifyNewAccount(r.Context(), req.Code)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	verified := authContext.(*memory.AuthContext)
	writeJSON(w, http.StatusOK, map[string]any{
		"authState": map[string]string{"accountId": verified.AccountID},
	})
}

func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if err := s.identity.ResendVerificationCode(r.Context(), provider.IdentifierKind(req.Type)); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleRegisterPasskey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthState struct {
			AccountID string `json:"accountId"`
		} `json:"authState"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	err := s.identity.RegisterPasskey(r.Context(), &memory.AuthContext{AccountID: req.AuthState.AccountID})
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLoginPasskey(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.LoginWithPasskey(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSessionCurrent(w http.ResponseWriter, r *http.Request) {
	active, err := s.identity.IsSessionActive(r.Context())
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (s *Server) handleKeepAlive(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.KeepSessionAlive(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExcludeSigners bool `json:"excludeSigners"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	serialized, err := s.identity.ExportSession(r.Context(), provider.ExportOptions{ExcludeSigners: req.ExcludeSigners})
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session": serialized})
}

func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.TouchSession(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Logout(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleWaitLogin(w http.ResponseWriter, r *http.Request) {
	result, err := s.identity.WaitForLogin(r.Context())
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"needsWallet": result.NeedsWallet})
}

func (s *Server) handleWaitSignup(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.WaitForSignup(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleWaitWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.WaitForWalletCreation(r.Context()); err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleOAuthURL(w http.ResponseWriter, r *http.Request) {
	method := provider.OAuthMethod(r.URL.Query().Get("method"))
	scheme := r.URL.Query().Get("appScheme")
	authURL, err := s.identity.OAuthURL(r.Context(), method, scheme)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
}

func (s *Server) handleOAuthVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	outcome, err := s.identity.VerifyOAuth(r.Context(), provider.OAuthMethod(req.Method))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isNewUser":   outcome.IsNewUser,
		"passwordUrl": outcome.PasswordURL,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"message": message, "code": code},
	})
}

func writeProviderError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	message := err.Error()
	code := ""
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		if provErr.StatusCode != 0 {
			status = provErr.StatusCode
		}
		message = provErr.Message
		code = provErr.ErrorCode
	}
	writeError(w, status, message, code)
}

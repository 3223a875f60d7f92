package devstack

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"remitauth/internal/auth/provider/memory"
)

// SessionTTL is how long the fake backend's sessions last.
const SessionTTL = 24 * time.Hour

// Backend fakes the application backend's session-import endpoint: it
// validates the serialized provider session and mints an HS256 session
// token for the owning account.
type Backend struct {
	identity   *memory.Provider
	signingKey []byte
	now        func() time.Time
}

func NewBackend(identity *memory.Provider, signingKey []byte) *Backend {
	return &Backend{
		identity:   identity,
		signingKey: signingKey,
		now:        time.Now,
	}
}

type importRequest struct {
	SerializedSession string `json:"serializedSession"`
}

// serializedSession is the shape the in-memory provider exports.
type serializedSession struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

// HandleImport implements POST /auth/session/import. A session that does
// not resolve to a known account is rejected with 401, mirroring the
// production backend's stale-session behavior.
func (b *Backend) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SerializedSession == "" {
		writeError(w, http.StatusBadRequest, "serializedSession is required", "invalid_request")
		return
	}

	var session serializedSession
	if err := json.Unmarshal([]byte(req.SerializedSession), &session); err != nil || session.UserID == "" {
		writeError(w, http.StatusUnauthorized, "serialized session is not valid", "invalid_session")
		return
	}
	account, ok := b.identity.AccountByID(session.UserID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "session does not belong to a known user", "invalid_session")
		return
	}

	expiresAt := b.now().Add(SessionTTL)
	token, err := b.mintToken(account.ID, expiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mint session token", "internal")
		return
	}

	user := map[string]any{
		"id":                 account.ID,
		"email":              account.Identifier,
		"verificationStatus": "verified",
		"isVerified":         true,
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"sessionToken": token,
		"user":         user,
		"expiresAt":    expiresAt.UTC().Format(time.RFC3339),
	})
}

func (b *Backend) mintToken(userID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    "remitauth-devstack",
		IssuedAt:  jwt.NewNumericDate(b.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signingKey)
}

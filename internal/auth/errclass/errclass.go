// Package errclass categorizes raw provider errors. It is the only place
// that matches on provider message strings, so when the upstream SDK grows
// structured codes the matching can be replaced here without touching the
// strategies or coordinators that branch on the result.
package errclass

import (
	"errors"
	"fmt"
	"strings"

	"remitauth/internal/auth/provider"
	dErrors "remitauth/pkg/domain-errors"
)

// Metadata keys attached to wrapped auth errors.
const (
	MetaStatusCode = "status_code"
	MetaErrorCode  = "error_code"
)

// Info is the normalized view of a provider failure.
type Info struct {
	Message    string
	StatusCode int
	ErrorCode  string
}

// IsCancellation reports whether err is a user-aborted flow: either the
// provider's explicit cancel flag or a cancellation-worded message.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	var provErr *provider.Error
	if errors.As(err, &provErr) && provErr.Cancelled {
		return true
	}
	if dErrors.HasCode(err, dErrors.CodeCancelled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancel") || strings.Contains(msg, "dismissed")
}

// IsSMSDeliveryError reports whether err looks like a failed verification
// SMS. Heuristic by design of the upstream API: message keywords or a
// 400/422 status both count, so this can over-match.
func IsSMSDeliveryError(err error) bool {
	if err == nil {
		return false
	}
	info := Extract(err)
	if info.StatusCode == 400 || info.StatusCode == 422 {
		return true
	}
	msg := strings.ToLower(info.Message)
	return strings.Contains(msg, "sms") ||
		strings.Contains(msg, "verification") ||
		strings.Contains(msg, "phone")
}

// Extract normalizes any error into Info, preferring the structured fields
// of provider.Error when present.
func Extract(err error) Info {
	if err == nil {
		return Info{}
	}
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		return Info{
			Message:    provErr.Message,
			StatusCode: provErr.StatusCode,
			ErrorCode:  provErr.ErrorCode,
		}
	}
	return Info{Message: err.Error()}
}

// Format renders Info for user-facing error messages, appending status and
// code parenthetically when known.
func Format(info Info) string {
	msg := info.Message
	if msg == "" {
		msg = "unknown error"
	}
	if info.StatusCode != 0 {
		msg = fmt.Sprintf("%s (Status: %d)", msg, info.StatusCode)
	}
	if info.ErrorCode != "" {
		msg = fmt.Sprintf("%s (Code: %s)", msg, info.ErrorCode)
	}
	return msg
}

// WrapAuthError builds the strategy-tagged failure surfaced to callers.
// Status and error code ride along as metadata for upstream inspection.
func WrapAuthError(method string, info Info) error {
	wrapped := dErrors.New(dErrors.CodeInternal,
		fmt.Sprintf("%s authentication failed: %s", method, Format(info)))
	if info.StatusCode != 0 {
		wrapped.WithMeta(MetaStatusCode, info.StatusCode)
	}
	if info.ErrorCode != "" {
		wrapped.WithMeta(MetaErrorCode, info.ErrorCode)
	}
	return wrapped
}

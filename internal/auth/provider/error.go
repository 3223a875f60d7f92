package provider

import "fmt"

// Error is a structured provider failure. The para client builds these from
// API responses; the memory provider builds them directly. The classifier
// in internal/auth/errclass prefers these fields over message matching.
type Error struct {
	Message    string
	StatusCode int
	ErrorCode  string
	Cancelled  bool
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// NewCancelled builds the user-aborted flow error. Kept as a constructor so
// every cancellation carries the flag, not just the message.
func NewCancelled(message string) *Error {
	return &Error{Message: message, Cancelled: true}
}

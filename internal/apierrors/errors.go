package apierrors

import (
	"errors"
	"fmt"
)

// ValidationError reports client-side input that fails a shape check before any
// network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError carries a server-reported authentication failure message, either the
// `message` field of a JSON body or the raw response text.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ProtocolError reports a response missing a contractually required field
// (a login response without a token, a checkout response without a URL).
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// RequestError is a generic non-2xx response with the status and body preserved.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a RequestError with HTTP status 401.
// A 401 from a protected endpoint is the only authoritative signal that the
// session must be discarded before its stated expiry.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == 401
}

// Message extracts the human-readable text from any error in the taxonomy.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

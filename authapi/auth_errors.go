package authapi

import (
	"github.com/pkg/errors"

	"github.com/tylerpac/solace-client/internal/apierrors"
)

// EmailNotVerifiedMessage is the literal body the backend returns when a
// login is refused because the account's email is still unverified. It must
// be surfaced as a dedicated message, not the generic login failure.
const EmailNotVerifiedMessage = "email_not_verified"

// VerificationError reports a failed email-verification call, carrying the
// response body text.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return e.Message
}

// IsEmailNotVerified reports whether err is the server telling us the user
// must verify their email before logging in.
func IsEmailNotVerified(err error) bool {
	var ae *apierrors.AuthError
	return errors.As(err, &ae) && ae.Message == EmailNotVerifiedMessage
}

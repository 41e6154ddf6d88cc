package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const fingerprintLength = 12

// Claims holds the decoded payload segment of a bearer token. The decode is
// unverified: no signature check is performed, so nothing here may feed an
// authorization decision. The server's own 401 responses remain the only
// authority on whether a token is good.
type Claims map[string]any

// Exp returns the expiry claim as seconds since epoch, or false if the claim
// is missing or not numeric.
func (c Claims) Exp() (int64, bool) {
	exp, ok := c["exp"].(float64)
	if !ok {
		return 0, false
	}
	return int64(exp), true
}

// Decode extracts the claims from the token's payload segment. It returns nil
// for any malformed input (empty token, wrong segment count, bad base64 or
// JSON) and never returns an error to the caller.
func Decode(rawToken string) Claims {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil
	}
	return Claims(claims)
}

// IsValid reports whether the token decodes and its expiry lies in the future.
// This is a client-side expiry hint only, used to decide whether attempting a
// protected call is worthwhile at all.
func IsValid(rawToken string) bool {
	claims := Decode(rawToken)
	if claims == nil {
		return false
	}
	exp, ok := claims.Exp()
	if !ok {
		return false
	}
	return exp*1000 > NowTimeFunc().UnixMilli()
}

// SessionFingerprint derives a short display id from the token's signature
// segment. Tokens without three segments fall back to a prefix of the whole
// token. The fingerprint is non-secret and only ever shown to the user.
func SessionFingerprint(rawToken string) string {
	if rawToken == "" {
		return ""
	}
	parts := strings.Split(rawToken, ".")
	if len(parts) < 3 {
		return truncate(rawToken, fingerprintLength)
	}
	return truncate(parts[2], fingerprintLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

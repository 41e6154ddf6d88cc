package authapi

import "regexp"

// Matches the local@domain.tld shape; anything stricter belongs to the server.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailLooksValid performs the client-side shape check applied before any
// registration or reset request reaches the network.
func EmailLooksValid(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

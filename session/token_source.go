package session

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource adapts a Store to oauth2.TokenSource so authorized calls always
// carry whatever token the store holds at request time. It is deliberately
// not wrapped in oauth2.ReuseTokenSource: the token changes on re-login and
// must never be cached past a Clear.
type TokenSource struct {
	store *Store
}

// NewTokenSource creates a TokenSource over the store.
func NewTokenSource(store *Store) *TokenSource {
	return &TokenSource{store: store}
}

// Token implements oauth2.TokenSource. It fails with ErrNotAuthenticated when
// no valid session is held, which keeps unauthenticated requests off the wire.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	sess, ok := ts.store.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}, nil
}

// Client returns an http.Client whose transport injects the bearer header on
// every request.
func (ts *TokenSource) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, ts)
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

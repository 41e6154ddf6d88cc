// Package protected issues requests to the bearer-guarded endpoints of the
// backend (/hello, /test). The Authorization header comes from the oauth2
// transport over the session store, so a re-login or logout is picked up on
// the very next request.
package protected

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/internal/restclient"
)

// Client calls protected resource endpoints.
type Client struct {
	api *restclient.Client
}

// NewClient creates a Client. authorized must be an http.Client whose
// transport injects the bearer header (session.TokenSource.Client).
func NewClient(baseURL string, authorized *http.Client) *Client {
	return &Client{api: restclient.New(baseURL, authorized)}
}

// Call fetches the given path and returns the raw response text.
//
// Errors surface untranslated: a *apierrors.RequestError with status 401 is
// the caller's signal that the server no longer honors the token, and the
// only event that may clear the session before its stated expiry. With no
// session held the transport fails before anything reaches the wire, and the
// error chain carries session.ErrNotAuthenticated.
func (c *Client) Call(ctx context.Context, path string) (string, error) {
	body, err := c.api.DoText(ctx, http.MethodGet, path, nil)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("protected call failed")
		return "", err
	}
	return body, nil
}

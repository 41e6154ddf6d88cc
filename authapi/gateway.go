package authapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/internal/apierrors"
	"github.com/tylerpac/solace-client/internal/restclient"
)

// AuthResponse is the body the backend returns for login and refresh.
type AuthResponse struct {
	Token            string `json:"token"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Gateway performs the authentication API operations and normalizes their
// error outcomes into the client error taxonomy. It never produces or stores
// a session itself; callers decide what to persist.
type Gateway struct {
	api *restclient.Client
}

// NewGateway creates a Gateway against the given API base URL. A nil
// httpClient uses the default transport; auth calls never carry a bearer.
func NewGateway(baseURL string, httpClient *http.Client) *Gateway {
	return &Gateway{api: restclient.New(baseURL, httpClient)}
}

// Register creates an account. The email shape is checked before any network
// call; registration does not sign the user in — a verification email has to
// be confirmed first.
func (g *Gateway) Register(ctx context.Context, username, password, email string) error {
	if !EmailLooksValid(email) {
		return &apierrors.ValidationError{Message: "please enter a valid email address"}
	}

	body := credentialsRequest{Username: username, Password: password, Email: email}
	if err := g.api.DoJSON(ctx, http.MethodPost, "/auth/register", nil, body, nil); err != nil {
		return asAuthError(err)
	}
	log.Debug().Str("username", username).Msg("registration accepted")
	return nil
}

// Login exchanges credentials for the auth response. A response without a
// token is a protocol violation, not a login failure.
func (g *Gateway) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := credentialsRequest{Username: username, Password: password}

	var resp AuthResponse
	if err := g.api.DoJSON(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, asAuthError(err)
	}
	if resp.Token == "" {
		return nil, &apierrors.ProtocolError{Message: "no token was returned by the backend"}
	}
	log.Debug().Str("username", username).Msg("login succeeded")
	return &resp, nil
}

// Refresh exchanges a refresh token for a fresh auth response.
func (g *Gateway) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}

	var resp AuthResponse
	if err := g.api.DoJSON(ctx, http.MethodPost, "/auth/refresh", nil, body, &resp); err != nil {
		return nil, asAuthError(err)
	}
	if resp.Token == "" {
		return nil, &apierrors.ProtocolError{Message: "no token was returned by the backend"}
	}
	return &resp, nil
}

// VerifyEmail confirms the token carried by a verification link.
func (g *Gateway) VerifyEmail(ctx context.Context, verificationToken string) error {
	path := "/auth/verify-email?token=" + url.QueryEscape(verificationToken)
	if _, err := g.api.DoText(ctx, http.MethodGet, path, nil); err != nil {
		var re *apierrors.RequestError
		if errors.As(err, &re) {
			return &VerificationError{Message: re.Body}
		}
		return err
	}
	return nil
}

// ResendVerification asks the backend to send a new verification email.
func (g *Gateway) ResendVerification(ctx context.Context, email string) error {
	if !EmailLooksValid(email) {
		return &apierrors.ValidationError{Message: "please enter a valid email address"}
	}
	body := map[string]string{"email": email}
	return asAuthError(g.api.DoJSON(ctx, http.MethodPost, "/auth/resend-verification", nil, body, nil))
}

// RequestPasswordReset starts the reset flow for the given email.
func (g *Gateway) RequestPasswordReset(ctx context.Context, email string) error {
	if !EmailLooksValid(email) {
		return &apierrors.ValidationError{Message: "please enter a valid email address"}
	}
	body := map[string]string{"email": email}
	return asAuthError(g.api.DoJSON(ctx, http.MethodPost, "/auth/password-reset/request", nil, body, nil))
}

// ConfirmPasswordReset completes the reset flow with the emailed token.
func (g *Gateway) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "newPassword": newPassword}
	return asAuthError(g.api.DoJSON(ctx, http.MethodPost, "/auth/password-reset/confirm", nil, body, nil))
}

// asAuthError converts non-2xx responses into message-carrying AuthErrors.
// Transport and protocol failures pass through unchanged.
func asAuthError(err error) error {
	if err == nil {
		return nil
	}
	var re *apierrors.RequestError
	if errors.As(err, &re) {
		return &apierrors.AuthError{Message: re.Body}
	}
	return err
}

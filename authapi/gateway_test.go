package authapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tylerpac/solace-client/authapi"
	"github.com/tylerpac/solace-client/internal/apierrors"
)

func TestGateway_Register(t *testing.T) {
	t.Run("invalid email never reaches the network", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		err := g.Register(context.Background(), "john", "password123", "not-an-email")

		var ve *apierrors.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Message, "valid email address")
		require.Zero(t, hits.Load())
	})

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/register", r.URL.Path)
			require.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "john", body["username"])
			require.Equal(t, "john@example.com", body["email"])

			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("verification_sent"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		require.NoError(t, g.Register(context.Background(), "john", "password123", "john@example.com"))
	})

	t.Run("JSON error body yields its message field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"username already taken"}`))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		err := g.Register(context.Background(), "john", "password123", "john@example.com")

		var ae *apierrors.AuthError
		require.ErrorAs(t, err, &ae)
		require.Equal(t, "username already taken", ae.Message)
	})

	t.Run("text error body is used verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("too_many_requests"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		err := g.Register(context.Background(), "john", "password123", "john@example.com")

		var ae *apierrors.AuthError
		require.ErrorAs(t, err, &ae)
		require.Equal(t, "too_many_requests", ae.Message)
	})
}

func TestGateway_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"tok-123","refreshToken":"ref-456","tokenType":"Bearer","expiresInSeconds":900}`))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		resp, err := g.Login(context.Background(), "john", "password123")
		require.NoError(t, err)
		require.Equal(t, "tok-123", resp.Token)
		require.Equal(t, "ref-456", resp.RefreshToken)
		require.Equal(t, int64(900), resp.ExpiresInSeconds)
	})

	t.Run("email not verified is distinguishable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("email_not_verified"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		_, err := g.Login(context.Background(), "john", "password123")
		require.True(t, authapi.IsEmailNotVerified(err))
	})

	t.Run("json message form is also distinguishable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"email_not_verified"}`))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		_, err := g.Login(context.Background(), "john", "password123")
		require.True(t, authapi.IsEmailNotVerified(err))
	})

	t.Run("generic failure is not flagged as unverified", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("invalid_credentials"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		_, err := g.Login(context.Background(), "john", "wrong")
		require.False(t, authapi.IsEmailNotVerified(err))

		var ae *apierrors.AuthError
		require.ErrorAs(t, err, &ae)
		require.Equal(t, "invalid_credentials", ae.Message)
	})

	t.Run("missing token is a protocol error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tokenType":"Bearer"}`))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		_, err := g.Login(context.Background(), "john", "password123")

		var pe *apierrors.ProtocolError
		require.ErrorAs(t, err, &pe)
		require.Contains(t, pe.Message, "no token")
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		g := authapi.NewGateway("http://127.0.0.1:1", nil)
		_, err := g.Login(context.Background(), "john", "password123")

		var ne *apierrors.NetworkError
		require.ErrorAs(t, err, &ne)
	})
}

func TestGateway_VerifyEmail(t *testing.T) {
	t.Run("token is escaped into the query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/verify-email", r.URL.Path)
			require.Equal(t, "a token/with specials", r.URL.Query().Get("token"))
			_, _ = w.Write([]byte("verified"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		require.NoError(t, g.VerifyEmail(context.Background(), "a token/with specials"))
	})

	t.Run("failure carries the response text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid_or_expired_token"))
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		err := g.VerifyEmail(context.Background(), "stale")

		var ve *authapi.VerificationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "invalid_or_expired_token", ve.Message)
	})
}

func TestGateway_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ref-456", body["refreshToken"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-next","refreshToken":"ref-next"}`))
	}))
	defer server.Close()

	g := authapi.NewGateway(server.URL, nil)
	resp, err := g.Refresh(context.Background(), "ref-456")
	require.NoError(t, err)
	require.Equal(t, "tok-next", resp.Token)
	require.Equal(t, "ref-next", resp.RefreshToken)
}

func TestGateway_PasswordReset(t *testing.T) {
	t.Run("request validates the email first", func(t *testing.T) {
		g := authapi.NewGateway("http://127.0.0.1:1", nil)
		err := g.RequestPasswordReset(context.Background(), "nope")

		var ve *apierrors.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("confirm posts token and new password", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/password-reset/confirm", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "reset-tok", body["token"])
			require.Equal(t, "newpass456", body["newPassword"])
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		g := authapi.NewGateway(server.URL, nil)
		require.NoError(t, g.ConfirmPasswordReset(context.Background(), "reset-tok", "newpass456"))
	})
}

func TestEmailLooksValid(t *testing.T) {
	valid := []string{"john@example.com", "a.b+c@sub.domain.io"}
	for _, email := range valid {
		require.True(t, authapi.EmailLooksValid(email), email)
	}

	invalid := []string{"", "not-an-email", "missing@tld", "spaces in@mail.com", "@example.com"}
	for _, email := range invalid {
		require.False(t, authapi.EmailLooksValid(email), email)
	}
}

package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/internal/apierrors"
)

const defaultTimeout = 15 * time.Second

// Client wraps an http.Client with the conventions every backend call shares:
// JSON bodies, `{message}` extraction from error responses with a raw-text
// fallback, and a correlation ID on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL. A nil httpClient gets a
// default with a request timeout; callers needing an authorized transport
// pass their own.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DoJSON issues a request with an optional JSON body and decodes the JSON
// response into out. Either may be nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, headers map[string]string, body any, out any) error {
	respBody, err := c.do(ctx, method, path, headers, body)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &apierrors.ProtocolError{Message: errors.Wrap(err, "malformed response body").Error()}
	}
	return nil
}

// DoText issues a request and returns the raw response text.
func (c *Client) DoText(ctx context.Context, method, path string, headers map[string]string) (string, error) {
	respBody, err := c.do(ctx, method, path, headers, nil)
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[restclient.do] encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "[restclient.do] build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierrors.RequestError{
			Status: resp.StatusCode,
			Body:   extractMessage(resp.Header.Get("Content-Type"), respBody),
		}
	}
	return respBody, nil
}

// extractMessage pulls the message field out of a JSON error body, falling
// back to the raw response text.
func extractMessage(contentType string, body []byte) string {
	if strings.Contains(contentType, "application/json") {
		var decoded struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
			return decoded.Message
		}
	}
	return strings.TrimSpace(string(body))
}

package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// SessionInterface is the narrow view of the auth session the transport
// needs: a token to replay and a way to broadcast that it was rejected.
type SessionInterface interface {
	Token() string
	Expire()
}

// Client talks to the hub backend. Every response is wrapped in the
// standard envelope; a 401 is uniformly treated as session expiry.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session SessionInterface
	Logger  logger.Interface
}

// NewClient constructs a Client for the given base URL
func NewClient(baseURL string, timeout time.Duration, session SessionInterface, logging logger.Interface) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Session: session,
		Logger:  logging,
	}
}

// Envelope is the uniform response wrapper used by every endpoint
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
	Message string          `json:"message"`
}

// ErrorBody carries the backend's error code and message
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Do issues a request and decodes the envelope's data field into out.
// body may be nil for requests without a payload, out may be nil when the
// caller only cares about success.
func (c *Client) Do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		binary, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(binary)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if c.Session != nil {
		if token := c.Session.Token(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.HTTP.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode == http.StatusUnauthorized {
		// No distinction between an expired and an invalid token
		if c.Session != nil {
			c.Session.Expire()
		}
		return ErrSessionExpired
	}

	binary, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	envelope := Envelope{}
	err = json.Unmarshal(binary, &envelope)
	if err != nil {
		return fmt.Errorf("could not parse response envelope: %w", err)
	}

	if response.StatusCode >= 400 || !envelope.Success {
		requestError := &RequestError{Status: response.StatusCode}
		if envelope.Error != nil {
			requestError.Code = envelope.Error.Code
			requestError.Message = envelope.Error.Message
		}
		return requestError
	}

	if out != nil && len(envelope.Data) > 0 {
		err = json.Unmarshal(envelope.Data, out)
		if err != nil {
			return fmt.Errorf("could not parse response data: %w", err)
		}
	}

	return nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request
func (c *Client) Patch(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

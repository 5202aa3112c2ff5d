package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"createmvp/internal/logging"

	"github.com/google/uuid"
)

const (
	chatPath        = "/api/chat"
	credentialsPath = "/api/api-keys"
	historyPath     = "/api/chat/history"

	defaultTimeout = 60 * time.Second
	maxErrorBody   = 512
)

// HTTPClient talks to the CreateMVP API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logging.AppLogger
}

// NewHTTPClient creates a client for baseURL. token may be empty, in which
// case requests carry no Authorization header.
func NewHTTPClient(baseURL, token string, logger *logging.AppLogger) *HTTPClient {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type completionResponse struct {
	Response string `json:"response"`
}

// Complete posts req to the chat endpoint and returns the completion text.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Messages == nil {
		req.Messages = []WireMessage{}
	}
	var out completionResponse
	if err := c.do(ctx, "complete", http.MethodPost, chatPath, req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Credentials lists the provider keys registered for the current user.
func (c *HTTPClient) Credentials(ctx context.Context) ([]Credential, error) {
	var out []Credential
	if err := c.do(ctx, "credentials", http.MethodGet, credentialsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns the stored chat history for the current user.
func (c *HTTPClient) History(ctx context.Context) ([]Message, error) {
	var out []Message
	if err := c.do(ctx, "history", http.MethodGet, historyPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do sends an authenticated JSON request and decodes a 2xx response into out.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	if c.baseURL == "" {
		return &RequestError{Op: op, Err: fmt.Errorf("API URL not configured")}
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("API request", "op", op, "status", resp.StatusCode, "request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}

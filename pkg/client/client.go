// Package client implements the authenticated request cycle against the
// Apstra fabric controller.
//
// Every call is two network legs: a login against /api/user/login that
// yields a short-lived bearer token, then the target request with that
// token attached as the controller's proprietary AuthToken header. Tokens
// are never cached across calls; the server trades a little latency for
// the absence of token-refresh logic and stale-token failure modes.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"apstramcp/pkg/credentials"
	"go.uber.org/zap"
)

const loginPath = "/api/user/login"

const (
	// ReadTimeout bounds query legs.
	ReadTimeout = 60 * time.Second
	// WriteTimeout bounds mutating legs. Controller-side batch/async
	// operations can stall, so writes get a tighter bound than reads.
	WriteTimeout = 30 * time.Second
)

// Client talks to an Apstra controller over HTTPS.
type Client struct {
	httpc *http.Client
}

// New creates a controller client.
//
// TLS certificate verification is disabled: Apstra controllers ship with
// self-signed certificates in this deployment context, and operators pin
// trust by address rather than by CA. This is a deliberate trust decision.
func New() *Client {
	return &Client{
		httpc: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
			},
		},
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login performs the login leg and returns the headers to attach to the
// target leg. The controller answers a successful login with 201 Created;
// anything else is an AuthenticationError carrying status and body.
func (c *Client) Login(ctx context.Context, creds credentials.Bundle) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, ReadTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding login body: %w", err)
	}

	url := "https://" + creds.Addr() + loginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("login leg: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("reading login response: %w", err)}
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var login loginResponse
	if err := json.Unmarshal(respBody, &login); err != nil {
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: "login response is not valid JSON"}
	}

	headers := http.Header{}
	headers.Set("AuthToken", login.Token)
	headers.Set("Content-Type", "application/json")
	headers.Set("Cache-Control", "no-cache")

	return headers, nil
}

// Do performs the full two-leg cycle for method/path and returns the raw
// response body of the target leg. A nil body sends no payload; any other
// value is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, path string, body any, creds credentials.Bundle) ([]byte, error) {
	headers, err := c.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	timeout := ReadTimeout
	if isWrite(method) {
		timeout = WriteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	url := "https://" + creds.Addr() + path
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	zap.L().Debug("controller request", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// DoJSON performs Do and re-serializes the JSON response pretty-printed.
// An empty response body yields an empty string.
func (c *Client) DoJSON(ctx context.Context, method, path string, body any, creds credentials.Bundle) (string, error) {
	raw, err := c.Do(ctx, method, path, body, creds)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	return prettyJSON(raw)
}

// ListBlueprints fetches /api/blueprints and surfaces only the inner items
// array, not the envelope.
func (c *Client) ListBlueprints(ctx context.Context, creds credentials.Bundle) (string, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/blueprints", nil, creds)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", &RequestError{Err: fmt.Errorf("parsing blueprint list: %w", err)}
	}
	if envelope.Items == nil {
		return "", &RequestError{Err: fmt.Errorf("blueprint list response has no items array")}
	}

	return prettyJSON(envelope.Items)
}

func prettyJSON(raw []byte) (string, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &RequestError{Err: fmt.Errorf("response is not valid JSON: %w", err)}
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("re-encoding response: %w", err)
	}

	return string(pretty), nil
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

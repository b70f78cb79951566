// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the HTTP transport of the synchronization
// protocol: LIST as a GET returning a JSON array, CREATE and UPDATE as
// POSTs carrying a single form field {vaultName: JSON-of-record}, DELETE as
// a DELETE carrying the same pair in the query string. Non-2xx responses
// are mapped to errors; 401 maps to [ErrUnauthorized] so callers can match
// with errors.Is.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config carries the transport settings.
type Config struct {
	// Timeout bounds every request. Defaults to 15s.
	Timeout time.Duration
	// AuthToken, when set, is attached to every request as a bearer token.
	AuthToken string
}

// HTTPTransport implements the vault's Transport interface on resty.
type HTTPTransport struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPTransport(cfg Config) *HTTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().SetTimeout(cfg.Timeout)
	return &HTTPTransport{client: cli, token: strings.TrimSpace(cfg.AuthToken)}
}

// SetToken stores the bearer token attached to all subsequent requests.
// An empty token disables the Authorization header.
func (h *HTTPTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token returns the bearer token currently in use, or an empty string.
func (h *HTTPTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// List fetches the full collection from the list endpoint.
func (h *HTTPTransport) List(ctx context.Context, url string) ([]map[string]any, error) {
	resp, err := h.request(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []map[string]any
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return items, nil
}

// Create posts a stripped record and returns the created record as the
// server reports it (canonical identifier included). A 2xx response with an
// empty or non-object body yields a nil map; the caller merges nothing.
func (h *HTTPTransport) Create(ctx context.Context, url string, key string, payload []byte) (map[string]any, error) {
	resp, err := h.request(ctx).
		SetFormData(map[string]string{key: string(payload)}).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || !bytes.HasPrefix(body, []byte("{")) {
		return nil, nil
	}
	var created map[string]any
	if err = json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	return created, nil
}

// Update posts a stripped record to the update endpoint. The server answers
// boolean-ish: any 2xx counts as success unless the body literally says
// "false" or "0".
func (h *HTTPTransport) Update(ctx context.Context, url string, key string, payload []byte) error {
	resp, err := h.request(ctx).
		SetFormData(map[string]string{key: string(payload)}).
		Post(url)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}
	return mapBooleanBody(resp)
}

// Delete issues a DELETE for a stripped record. Form bodies are not carried
// on DELETE, so the {vaultName: record} pair rides the query string.
func (h *HTTPTransport) Delete(ctx context.Context, url string, key string, payload []byte) error {
	resp, err := h.request(ctx).
		SetQueryParam(key, string(payload)).
		Delete(url)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}
	return mapBooleanBody(resp)
}

func (h *HTTPTransport) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

func mapBooleanBody(resp *resty.Response) error {
	switch strings.TrimSpace(string(resp.Body())) {
	case "false", "0":
		return ErrServerRejected
	default:
		return nil
	}
}

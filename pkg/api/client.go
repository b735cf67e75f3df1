// Package api implements the HTTP transport collaborator for the ordering
// backend: strict envelope decoding, credential headers, and a single
// refresh-and-retry when the access credential has expired.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ordersync"
	"ordersync/pkg/credstore"
)

const defaultTimeout = 15 * time.Second

// Client talks to the ordering backend. It satisfies ordersync.Client.
type Client struct {
	http  *http.Client
	base  string
	creds credstore.Store
}

var _ ordersync.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, e.g. to share a
// cookie jar with a credstore.CookieMirror.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New constructs a Client from configuration and the credential store used
// for authorized calls and refresh rotation.
func New(cfg Config, creds credstore.Store, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, fmt.Errorf("api: credential store is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		http:  &http.Client{Timeout: timeout},
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		creds: creds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// envelope is the uniform response wrapper. Every decoded response embeds it
// so semantic failures are detected in one place.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e envelope) ok() bool     { return e.Success }
func (e envelope) note() string { return e.Message }

type enveloped interface {
	ok() bool
	note() string
}

func (c *Client) FetchCatalogItems(ctx context.Context) ([]ordersync.CatalogItem, error) {
	var out struct {
		envelope
		Data []ordersync.CatalogItem `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, &out, ""); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) SubmitOrder(ctx context.Context, identifiers []string) (ordersync.SubmitReceipt, error) {
	payload := map[string][]string{"ingredients": identifiers}
	var out struct {
		envelope
		Name  string         `json:"name"`
		Order ordersync.Order `json:"order"`
	}
	if err := c.authorized(ctx, http.MethodPost, "/orders", payload, &out); err != nil {
		return ordersync.SubmitReceipt{}, err
	}
	return ordersync.SubmitReceipt{Name: out.Name, Order: out.Order}, nil
}

func (c *Client) FetchOrderByNumber(ctx context.Context, number int) ([]ordersync.Order, error) {
	var out struct {
		envelope
		Orders []ordersync.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", number), nil, &out, ""); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) FetchUserOrders(ctx context.Context) ([]ordersync.Order, error) {
	var out struct {
		envelope
		Orders []ordersync.Order `json:"orders"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) FetchPublicFeed(ctx context.Context) (ordersync.FeedSnapshot, error) {
	var out struct {
		envelope
		Orders     []ordersync.Order `json:"orders"`
		Total      int               `json:"total"`
		TotalToday int               `json:"totalToday"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, &out, ""); err != nil {
		return ordersync.FeedSnapshot{}, err
	}
	// defaulting is explicit per field: a response omitting a region yields
	// the empty value for that region, never a partial apply
	snapshot := ordersync.FeedSnapshot{
		Orders:     out.Orders,
		Total:      out.Total,
		TotalToday: out.TotalToday,
	}
	if snapshot.Orders == nil {
		snapshot.Orders = []ordersync.Order{}
	}
	return snapshot, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (ordersync.AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}
	return c.auth(ctx, "/auth/login", payload)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (ordersync.AuthResult, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.auth(ctx, "/auth/register", payload)
}

func (c *Client) auth(ctx context.Context, path string, payload any) (ordersync.AuthResult, error) {
	var out struct {
		envelope
		User         ordersync.User `json:"user"`
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
	}
	if err := c.do(ctx, http.MethodPost, path, payload, &out, ""); err != nil {
		return ordersync.AuthResult{}, err
	}
	return ordersync.AuthResult{
		User:         out.User,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

func (c *Client) UpdateUser(ctx context.Context, update ordersync.UserUpdate) (ordersync.User, error) {
	var out struct {
		envelope
		User ordersync.User `json:"user"`
	}
	if err := c.authorized(ctx, http.MethodPatch, "/auth/user", update, &out); err != nil {
		return ordersync.User{}, err
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	refresh, err := c.creds.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("api: read refresh token: %w", err)
	}
	payload := map[string]string{"token": refresh}
	var out struct{ envelope }
	return c.do(ctx, http.MethodPost, "/auth/logout", payload, &out, "")
}

func (c *Client) VerifySession(ctx context.Context) (ordersync.User, error) {
	var out struct {
		envelope
		User ordersync.User `json:"user"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/auth/user", nil, &out); err != nil {
		return ordersync.User{}, err
	}
	return out.User, nil
}

// authorized performs a credentialed request, refreshing the access token
// and retrying exactly once when the server reports it expired.
func (c *Client) authorized(ctx context.Context, method, path string, payload any, out enveloped) error {
	token, err := c.creds.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("api: read access token: %w", err)
	}
	err = c.do(ctx, method, path, payload, out, token)
	if !tokenExpired(err) {
		return err
	}
	if refreshErr := c.refresh(ctx); refreshErr != nil {
		return err
	}
	token, readErr := c.creds.AccessToken(ctx)
	if readErr != nil {
		return err
	}
	return c.do(ctx, method, path, payload, out, token)
}

// refresh rotates the credential pair via the token endpoint.
func (c *Client) refresh(ctx context.Context) error {
	refresh, err := c.creds.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("api: read refresh token: %w", err)
	}
	if refresh == "" {
		return &ordersync.RequestError{Message: "no refresh token available", Semantic: true}
	}
	payload := map[string]string{"token": refresh}
	var out struct {
		envelope
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/token", payload, &out, ""); err != nil {
		return err
	}
	return c.creds.SetTokens(ctx, out.AccessToken, out.RefreshToken)
}

func tokenExpired(err error) bool {
	var reqErr *ordersync.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.Status == http.StatusUnauthorized || reqErr.Status == http.StatusForbidden {
		return true
	}
	return strings.Contains(reqErr.Message, "jwt expired")
}

// do performs one request and decodes the enveloped response. Non-2xx
// statuses and success=false envelopes both surface as
// *ordersync.RequestError.
func (c *Client) do(ctx context.Context, method, path string, payload any, out enveloped, token string) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &ordersync.RequestError{Status: resp.StatusCode}
		var failure envelope
		if json.Unmarshal(raw, &failure) == nil {
			reqErr.Message = failure.Message
		}
		return reqErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	if !out.ok() {
		return &ordersync.RequestError{Message: out.note(), Semantic: true}
	}
	return nil
}

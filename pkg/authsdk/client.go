package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to the authentication service and keeps its cookies.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient uses hc for requests. Its Jar is replaced when nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// NewClient returns a Client with its own cookie jar.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.HTTPClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.HTTPClient.Jar = jar
	}
	return c, nil
}

// Login posts credentials and stores the returned cookies.
func (c *Client) Login(ctx context.Context, username, password string) (*IdentityResponse, error) {
	resp, err := c.postForm(ctx, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		return nil, err
	}

	var id IdentityResponse
	if err := decodeJSON(resp, &id, http.StatusOK); err != nil {
		return nil, err
	}
	return &id, nil
}

// Me returns the identity the current cookies authenticate.
func (c *Client) Me(ctx context.Context) (*IdentityResponse, error) {
	resp, err := c.get(ctx, "/me")
	if err != nil {
		return nil, err
	}

	var id IdentityResponse
	if err := decodeJSON(resp, &id, http.StatusOK); err != nil {
		return nil, err
	}
	return &id, nil
}

// Index fetches the public landing endpoint, which reports whether the
// cookies authenticate.
func (c *Client) Index(ctx context.Context) (*IndexResponse, error) {
	resp, err := c.get(ctx, "/")
	if err != nil {
		return nil, err
	}

	var idx IndexResponse
	if err := decodeJSON(resp, &idx, http.StatusOK); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Logout asks the service to expire every auth cookie.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postForm(ctx, "/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Cookies returns the cookies the jar would send to the service.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil
	}
	return c.HTTPClient.Jar.Cookies(u)
}

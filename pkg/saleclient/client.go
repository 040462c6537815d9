// Package saleclient talks to the backend that persists sales. The
// backend is trusted to validate the order; this client only carries
// the payload and the CSRF token the backend's cookie issuer handed
// out earlier in the browsing session.
package saleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
)

func init() {
	// The backend reads amounts as plain JSON numbers, not quoted
	// strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrMissingToken aborts a submission before any request is made. The
// message doubles as the operator-facing alert.
var ErrMissingToken = errors.New("Security token not found. Please refresh the page and try again.")

type Client struct {
	httpClient     *http.Client
	processSaleURL *url.URL
	cookieName     string
}

// New builds a client for the given backend. processSaleURL may be
// absolute or a path relative to baseURL (the default is the backend's
// /pos/process-sale/ route).
func New(baseURL, processSaleURL, cookieName string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}

	endpoint, err := base.Parse(processSaleURL)
	if err != nil {
		return nil, fmt.Errorf("invalid process-sale URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient:     &http.Client{Jar: jar},
		processSaleURL: endpoint,
		cookieName:     cookieName,
	}, nil
}

// Prime performs a GET against the backend so its cookie issuer can set
// the CSRF cookie on our jar, the same way loading the POS page does
// for a browser.
func (c *Client) Prime(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.processSaleURL.Scheme+"://"+c.processSaleURL.Host+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// SetToken stores a CSRF token directly, for deployments where the
// token is provisioned out of band.
func (c *Client) SetToken(token string) {
	c.httpClient.Jar.SetCookies(c.processSaleURL, []*http.Cookie{
		{Name: c.cookieName, Value: token, Path: "/"},
	})
}

// Token returns the CSRF token currently in the jar for the sale
// endpoint, or ErrMissingToken.
func (c *Client) Token() (string, error) {
	for _, cookie := range c.httpClient.Jar.Cookies(c.processSaleURL) {
		if cookie.Name == c.cookieName {
			return cookie.Value, nil
		}
	}
	return "", ErrMissingToken
}

// Submit posts the sale as JSON with the CSRF token header and decodes
// the backend's verdict. A non-2xx status is a transport-level failure;
// a decoded body with success=false is returned to the caller as data.
func (c *Client) Submit(ctx context.Context, saleReq models.SaleRequest) (*models.SaleResponse, error) {
	token, err := c.Token()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(saleReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.processSaleURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRFToken", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("network response was not ok: %s", resp.Status)
	}

	var saleResp models.SaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&saleResp); err != nil {
		return nil, fmt.Errorf("invalid response from server: %w", err)
	}
	return &saleResp, nil
}

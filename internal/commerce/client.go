// Package commerce reads the visitor's request-for-quote cart from the
// commerce backend.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoCart is returned when the backend has no quote cart for the
// visitor yet.
var ErrNoCart = errors.New("no quote cart")

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("quote cart: status %d", e.StatusCode)
}

// Client talks to the commerce REST API rooted at Base.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for base, e.g.
// https://shop.lifesciences.danaher.com/INTERSHOP/rest/WFS/DANAHERLS-LSIG-Site/-
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: httpClient}
}

type cart struct {
	Items []json.RawMessage `json:"items"`
}

// QuoteCount returns the number of items in the visitor's quote cart.
func (c *Client) QuoteCount(ctx context.Context, auth http.Header) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/rfqcart/-", nil)
	if err != nil {
		return 0, fmt.Errorf("building quote cart request: %w", err)
	}
	for k, vs := range auth {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching quote cart: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, ErrNoCart
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &StatusError{StatusCode: resp.StatusCode}
	}

	var body cart
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding quote cart: %w", err)
	}
	return len(body.Items), nil
}

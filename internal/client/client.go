// Package client talks to the flight search proxy over HTTP.
package client

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/travelpayouts"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx answer from the proxy.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("proxy: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("proxy: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	locale     string
}

type ClientOption func(c *Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLocale(locale string) ClientOption {
	return func(c *Client) {
		c.locale = locale
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{baseURL: strings.TrimRight(cmp.Or(baseURL, DefaultBaseURL), "/")}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = cmp.Or(c.httpClient, &http.Client{Timeout: 30 * time.Second})
	c.locale = cmp.Or(c.locale, "en")
	return c
}

// Search runs q through the proxy and decodes the upstream envelope.
func (c *Client) Search(ctx context.Context, q models.SearchQuery) (offers.Response, error) {
	v := url.Values{}
	v.Set("origin", q.Origin)
	v.Set("destination", q.Destination)
	v.Set("departure_at", q.DepartDate)
	if !q.OneWay && q.ReturnDate != "" {
		v.Set("return_at", q.ReturnDate)
	}
	v.Set("one_way", strconv.FormatBool(q.OneWay))

	body, err := c.get(ctx, "/api/flights/search", v)
	if err != nil {
		return offers.Response{}, err
	}
	return offers.DecodeResponse(body)
}

// Lookup returns place suggestions for term.
func (c *Client) Lookup(ctx context.Context, term string) ([]models.Place, error) {
	v := url.Values{}
	v.Set("term", term)
	v.Set("locale", c.locale)

	body, err := c.get(ctx, "/api/places", v)
	if err != nil {
		return nil, err
	}

	// the proxy passes the places2 body through unchanged
	return travelpayouts.DecodePlaces(body)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Detail = envelope.Error
		}
		return nil, apiErr
	}

	return body, nil
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

package travelpayouts

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/skyfare/internal/models"
	"golang.org/x/time/rate"
)

const (
	DefaultPricesURL = "https://api.travelpayouts.com/aviasales/v3/prices_for_dates"
	DefaultPlacesURL = "https://autocomplete.travelpayouts.com/places2"

	EndpointPrices = "prices_for_dates"
	EndpointPlaces = "places2"

	maxBodyBytes = 5 << 20
)

var (
	// ErrTemporary marks failures worth retrying: transport errors, 429 and 5xx.
	ErrTemporary = errors.New("temporary upstream error")
	ErrNoToken   = errors.New("travelpayouts: token is required")

	// ErrBodyTooLarge is returned instead of a truncated body.
	ErrBodyTooLarge = errors.New("upstream response body too large")
)

// UpstreamError is a non-2xx answer. Body is kept for server-side logging only.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrTemporary && (e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500)
}

// Defaults are injected into every prices_for_dates call.
type Defaults struct {
	Direct   bool
	Sorting  string
	Limit    int
	Currency string
}

func StandardDefaults() Defaults {
	return Defaults{Direct: false, Sorting: "price", Limit: 30, Currency: "usd"}
}

type Observer interface {
	ObserveUpstreamLatency(endpoint string, seconds float64)
	IncUpstreamFailure(endpoint string)
	IncUpstreamRetry(endpoint string)
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
	token      string
	pricesURL  string
	placesURL  string
	defaults   Defaults
	retries    int
	backoff    time.Duration
	maxBody    int64
}

type ClientOption func(c *Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

func WithURLs(pricesURL, placesURL string) ClientOption {
	return func(c *Client) {
		c.pricesURL = pricesURL
		c.placesURL = placesURL
	}
}

func WithDefaults(d Defaults) ClientOption {
	return func(c *Client) {
		c.defaults = d
	}
}

// WithRetry sets how many times a temporary failure is retried and the first backoff,
// which doubles per attempt.
func WithRetry(retries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = retries
		c.backoff = backoff
	}
}

func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	c := &Client{token: token, defaults: StandardDefaults(), retries: 2, backoff: 200 * time.Millisecond, maxBody: maxBodyBytes}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = cmp.Or(c.httpClient, &http.Client{Timeout: 15 * time.Second})
	c.pricesURL = cmp.Or(c.pricesURL, DefaultPricesURL)
	c.placesURL = cmp.Or(c.placesURL, DefaultPlacesURL)
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if c.retries < 0 {
		c.retries = 0
	}

	return c, nil
}

// PriceParams is the exact query sent upstream for q, credential excluded.
func (c *Client) PriceParams(q models.SearchQuery) url.Values {
	v := url.Values{}
	v.Set("origin", q.Origin)
	v.Set("destination", q.Destination)
	v.Set("departure_at", q.DepartDate)
	if !q.OneWay && q.ReturnDate != "" {
		v.Set("return_at", q.ReturnDate)
	}
	v.Set("one_way", strconv.FormatBool(q.OneWay))
	v.Set("direct", strconv.FormatBool(c.defaults.Direct))
	v.Set("sorting", c.defaults.Sorting)
	v.Set("limit", strconv.Itoa(c.defaults.Limit))
	v.Set("currency", c.defaults.Currency)
	return v
}

// PricesForDates returns the upstream JSON body unchanged.
func (c *Client) PricesForDates(ctx context.Context, q models.SearchQuery) ([]byte, error) {
	return c.get(ctx, EndpointPrices, c.pricesURL, c.PriceParams(q), true)
}

// Places returns the raw places2 body for term.
func (c *Client) Places(ctx context.Context, term, locale string) ([]byte, error) {
	v := url.Values{}
	v.Set("term", term)
	v.Set("locale", cmp.Or(locale, "en"))
	return c.get(ctx, EndpointPlaces, c.placesURL, v, false)
}

func (c *Client) get(ctx context.Context, endpoint, surl string, q url.Values, auth bool) ([]byte, error) {
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		body, err := c.once(ctx, endpoint, surl, q, auth)
		if err == nil {
			return body, nil
		}
		if c.observer != nil {
			c.observer.IncUpstreamFailure(endpoint)
		}
		if !errors.Is(err, ErrTemporary) || attempt >= c.retries {
			return nil, err
		}
		if c.observer != nil {
			c.observer.IncUpstreamRetry(endpoint)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

func (c *Client) once(ctx context.Context, endpoint, surl string, q url.Values, auth bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, surl, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	if auth {
		req.Header.Set("X-Access-Token", c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observer != nil {
		c.observer.ObserveUpstreamLatency(endpoint, time.Since(start).Seconds())
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %w", endpoint, ErrTemporary, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w: %w", endpoint, ErrTemporary, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w (over %d bytes)", endpoint, ErrBodyTooLarge, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

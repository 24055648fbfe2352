package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	ht "github.com/example/skyfare/internal/http"
	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/obs"
	"github.com/example/skyfare/internal/search"
	"github.com/example/skyfare/internal/travelpayouts"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------------------ MOCKS ------------------------
type mockService struct {
	searchFunc func(ctx context.Context, q models.SearchQuery) (search.Result, error)
	placesFunc func(ctx context.Context, term, locale string) ([]byte, error)
	calls      int
}

func (m *mockService) Search(ctx context.Context, q models.SearchQuery) (search.Result, error) {
	m.calls++
	return m.searchFunc(ctx, q)
}

func (m *mockService) Places(ctx context.Context, term, locale string) ([]byte, error) {
	m.calls++
	return m.placesFunc(ctx, term, locale)
}

type mockRateLimiter struct {
	allowFunc func(ip string) bool
}

func (m *mockRateLimiter) Allow(ip string) bool {
	return m.allowFunc(ip)
}

func allowAll() *mockRateLimiter {
	return &mockRateLimiter{allowFunc: func(string) bool { return true }}
}

// -------------------------------------------------------

func newHandler(svc search.ServiceManagement, rl search.RateLimiter) (*ht.Handler, *obs.Metrics) {
	m := obs.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ht.NewHandler(svc, rl, m, logger), m
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ht.ErrorResponse {
	t.Helper()
	var body ht.ErrorResponse
	require.NoError(t, jsoniter.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHandler_FlightSearch_ForwardsBody(t *testing.T) {
	upstream := []byte(`{"success":true,"data":[{"airline":"BA","price":420}],"currency":"usd"}`)
	var got models.SearchQuery
	svc := &mockService{searchFunc: func(ctx context.Context, q models.SearchQuery) (search.Result, error) {
		got = q
		return search.Result{Body: upstream}, nil
	}}
	h, m := newHandler(svc, allowAll())

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=jfk&destination=LHR&departure_at=2025-06-01", nil)
	rr := httptest.NewRecorder()
	h.FlightSearch(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rr.Header().Get("X-Cache"))
	assert.Equal(t, upstream, rr.Body.Bytes())
	assert.Equal(t, models.SearchQuery{Origin: "JFK", Destination: "LHR", DepartDate: "2025-06-01", OneWay: true}, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal))
}

func TestHandler_FlightSearch_RoundTripAliases(t *testing.T) {
	var got models.SearchQuery
	svc := &mockService{searchFunc: func(ctx context.Context, q models.SearchQuery) (search.Result, error) {
		got = q
		return search.Result{Body: []byte(`{}`), CacheHit: true}, nil
	}}
	h, _ := newHandler(svc, allowAll())

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=JFK&destination=LHR&depart_date=2025-06-01&return_date=2025-06-10&one_way=false", nil)
	rr := httptest.NewRecorder()
	h.FlightSearch(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hit", rr.Header().Get("X-Cache"))
	assert.Equal(t, "2025-06-10", got.ReturnDate)
	assert.False(t, got.OneWay)
}

func TestHandler_FlightSearch_InvalidParams(t *testing.T) {
	cases := map[string]string{
		"missing destination":  "/api/flights/search?origin=JFK&departure_at=2025-06-01",
		"bad date":             "/api/flights/search?origin=JFK&destination=LHR&departure_at=June",
		"round trip no return": "/api/flights/search?origin=JFK&destination=LHR&departure_at=2025-06-01&one_way=false",
		"bad one_way":          "/api/flights/search?origin=JFK&destination=LHR&departure_at=2025-06-01&one_way=maybe",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockService{}
			h, _ := newHandler(svc, allowAll())

			rr := httptest.NewRecorder()
			h.FlightSearch(rr, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, ht.MsgInvalidSearch, decodeError(t, rr).Message)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestHandler_FlightSearch_RateLimited(t *testing.T) {
	svc := &mockService{}
	var seen string
	rl := &mockRateLimiter{allowFunc: func(ip string) bool { seen = ip; return false }}
	h, m := newHandler(svc, rl)

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=JFK&destination=LHR&departure_at=2025-06-01", nil)
	req.RemoteAddr = "1.2.3.4:1234"
	rr := httptest.NewRecorder()
	h.FlightSearch(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1.2.3.4", seen)
	assert.Zero(t, svc.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitDropsTotal))
}

func TestHandler_FlightSearch_RateLimitedBeforeValidation(t *testing.T) {
	svc := &mockService{}
	rl := &mockRateLimiter{allowFunc: func(string) bool { return false }}
	h, m := newHandler(svc, rl)

	rr := httptest.NewRecorder()
	h.FlightSearch(rr, httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=J&destination=", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Zero(t, svc.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitDropsTotal))
}

func TestHandler_FlightSearch_UpstreamFailureHidesDetail(t *testing.T) {
	svc := &mockService{searchFunc: func(ctx context.Context, q models.SearchQuery) (search.Result, error) {
		return search.Result{}, &travelpayouts.UpstreamError{Endpoint: "prices_for_dates", StatusCode: 401, Body: "bad token secret"}
	}}
	h, _ := newHandler(svc, allowAll())

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=JFK&destination=LHR&departure_at=2025-06-01", nil)
	rr := httptest.NewRecorder()
	h.FlightSearch(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, ht.MsgFlightsFailed, body.Message)
	assert.Equal(t, "upstream request failed", body.Error)
	assert.NotContains(t, rr.Body.String(), "secret")
}

func TestHandler_Places(t *testing.T) {
	svc := &mockService{placesFunc: func(ctx context.Context, term, locale string) ([]byte, error) {
		assert.Equal(t, "lon", term)
		assert.Equal(t, "en", locale)
		return []byte(`[{"code":"LON","name":"London"}]`), nil
	}}
	h, _ := newHandler(svc, allowAll())

	rr := httptest.NewRecorder()
	h.Places(rr, httptest.NewRequest(http.MethodGet, "/api/places?term=lon", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"code":"LON","name":"London"}]`, rr.Body.String())
}

func TestHandler_Places_ShortTermSkipsUpstream(t *testing.T) {
	svc := &mockService{}
	h, _ := newHandler(svc, allowAll())

	rr := httptest.NewRecorder()
	h.Places(rr, httptest.NewRequest(http.MethodGet, "/api/places?term=l", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
	assert.Zero(t, svc.calls)
}

func TestHandler_Places_RateLimited(t *testing.T) {
	svc := &mockService{}
	var seen string
	rl := &mockRateLimiter{allowFunc: func(ip string) bool { seen = ip; return false }}
	h, m := newHandler(svc, rl)

	req := httptest.NewRequest(http.MethodGet, "/api/places?term=paris", nil)
	req.RemoteAddr = "5.6.7.8:4321"
	rr := httptest.NewRecorder()
	h.Places(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "5.6.7.8", seen)
	assert.Zero(t, svc.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitDropsTotal))
}

func TestHandler_Places_UpstreamFailure(t *testing.T) {
	svc := &mockService{placesFunc: func(ctx context.Context, term, locale string) ([]byte, error) {
		return nil, errors.New("dial tcp: refused")
	}}
	h, _ := newHandler(svc, allowAll())

	rr := httptest.NewRecorder()
	h.Places(rr, httptest.NewRequest(http.MethodGet, "/api/places?term=paris&locale=fr", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, ht.MsgPlacesFailed, decodeError(t, rr).Message)
}

func TestHandler_Healthz(t *testing.T) {
	h, _ := newHandler(&mockService{}, allowAll())

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

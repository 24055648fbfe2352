package http

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/obs"
	"github.com/example/skyfare/internal/search"
	"github.com/example/skyfare/internal/travelpayouts"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	MsgInvalidSearch  = "Invalid search parameters"
	MsgFlightsFailed  = "Error fetching flights"
	MsgPlacesFailed   = "Error fetching places"
	detailUpstreamErr = "upstream request failed"

	minPlaceTermLength = 2
)

type Handler struct {
	svc         search.ServiceManagement
	ratelimiter search.RateLimiter
	metrics     *obs.Metrics
	logger      *slog.Logger
}

func NewHandler(svc search.ServiceManagement, rl search.RateLimiter, m *obs.Metrics, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, ratelimiter: rl, metrics: m, logger: logger}
}

func (h *Handler) ipFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}

// FlightSearch proxies prices_for_dates. The upstream body is returned unchanged.
func (h *Handler) FlightSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncRequests()
	reqID := requestID(r)
	meta := map[string]string{"request_id": reqID}

	if !h.allow(w, r, meta) {
		return
	}

	q := r.URL.Query()
	query, err := models.NewSearchQuery(
		q.Get("origin"),
		q.Get("destination"),
		firstNotEmpty(q.Get("departure_at"), q.Get("depart_date")),
		firstNotEmpty(q.Get("return_at"), q.Get("return_date")),
		q.Get("one_way"),
	)
	if err != nil {
		BadRequest(w, MsgInvalidSearch, err.Error(), meta)
		return
	}
	if err := query.Validate(); err != nil {
		BadRequest(w, MsgInvalidSearch, err.Error(), meta)
		return
	}

	res, err := h.svc.Search(ctx, *query)
	if err != nil {
		h.logUpstreamError("flight search failed", reqID, err)
		InternalError(w, MsgFlightsFailed, detailUpstreamErr, meta)
		return
	}

	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	WriteRawJSON(w, http.StatusOK, res.Body)
}

// Places proxies the places2 autocomplete. Short terms answer an empty list without
// calling upstream.
func (h *Handler) Places(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	meta := map[string]string{"request_id": reqID}
	if !h.allow(w, r, meta) {
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if len([]rune(term)) < minPlaceTermLength {
		WriteRawJSON(w, http.StatusOK, []byte("[]"))
		return
	}
	locale := firstNotEmpty(r.URL.Query().Get("locale"), "en")

	body, err := h.svc.Places(r.Context(), term, locale)
	if err != nil {
		h.logUpstreamError("places lookup failed", reqID, err)
		BadGateway(w, MsgPlacesFailed, detailUpstreamErr, meta)
		return
	}
	WriteRawJSON(w, http.StatusOK, body)
}

// allow applies the per-IP limit and writes the 429 when the caller is over it.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, meta map[string]string) bool {
	if h.ratelimiter.Allow(h.ipFromRequest(r)) {
		return true
	}
	h.metrics.IncRateLimitDrops()
	TooManyRequests(w, "rate limit exceeded", meta)
	return false
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) logUpstreamError(msg, reqID string, err error) {
	attrs := []any{"request_id", reqID, "error", err}
	var uerr *travelpayouts.UpstreamError
	if errors.As(err, &uerr) {
		attrs = append(attrs, "upstream_status", uerr.StatusCode, "upstream_body", uerr.Body)
	}
	h.logger.Error(msg, attrs...)
}

func firstNotEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

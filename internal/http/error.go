package http

import (
	"net/http"
)

// ErrorResponse is the envelope for every non-2xx answer. Error never carries
// upstream detail.
type ErrorResponse struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg, detail string, meta map[string]string) {
	WriteJSON(w, status, ErrorResponse{Message: msg, Error: detail, Meta: meta})
}

func BadRequest(w http.ResponseWriter, msg, detail string, meta map[string]string) {
	WriteError(w, http.StatusBadRequest, msg, detail, meta)
}

func InternalError(w http.ResponseWriter, msg, detail string, meta map[string]string) {
	WriteError(w, http.StatusInternalServerError, msg, detail, meta)
}

func BadGateway(w http.ResponseWriter, msg, detail string, meta map[string]string) {
	WriteError(w, http.StatusBadGateway, msg, detail, meta)
}

func TooManyRequests(w http.ResponseWriter, msg string, meta map[string]string) {
	WriteError(w, http.StatusTooManyRequests, msg, "rate_limited", meta)
}

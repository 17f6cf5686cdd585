package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as JSON with a user message and a support code
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + kind is logged with request ID for correlation

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/logging"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errQueryTooLong = errors.New("search query too long")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code, Kind) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
}

// statusFor maps a search error to an HTTP status. Credential and remote
// failures are upstream problems, not the caller's, so both are 502.
func statusFor(err error) int {
	var le *core.LoadError
	if errors.As(err, &le) {
		switch le.Kind {
		case core.KindNotFound, core.KindEmpty:
			return http.StatusNotFound
		case core.KindParse, core.KindSchema:
			return http.StatusUnprocessableEntity
		case core.KindAuth, core.KindRemote:
			return http.StatusBadGateway
		}
	}

	switch {
	case errors.Is(err, core.ErrColumnMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyQuery), errors.Is(err, errQueryTooLong):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and writes a
// user-friendly JSON error response.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	kind := core.ErrorKind(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"kind", kind,
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if kind != "other" {
		resp.Kind = kind
	}
	writeJSON(w, statusCode, resp)
}

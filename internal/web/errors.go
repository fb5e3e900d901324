package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with the technical error. It is mapped via
// core.MapError to a coded user message, logged with the request ID, and
// rendered as JSON for API clients or as an HTML page for form posts.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/consumo/internal/core"
	"github.com/JonMunkholm/consumo/internal/logging"
	"github.com/JonMunkholm/consumo/internal/sheet"
	"github.com/JonMunkholm/consumo/internal/web/templates"
	"github.com/a-h/templ"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
// A zero statusCode picks the status from the error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	if statusCode == 0 {
		statusCode = statusFor(err)
	}
	userMsg := core.NewUserError(err).User

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsHTML(r) {
		page := templates.Page("Consumo de insumos", templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code))
		templ.Handler(page, templ.WithStatus(statusCode)).ServeHTTP(w, r)
		return
	}

	writeJSON(w, r, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor maps an error to the HTTP status it should produce.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errNoFile), errors.Is(err, errBadForm), errors.Is(err, core.ErrInvalidThreshold):
		return http.StatusBadRequest
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case core.IsUserFacing(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// wantsHTML reports whether the client submitted the browser form or
// otherwise prefers an HTML page over JSON.
func wantsHTML(r *http.Request) bool {
	// r.Form is only read here; parsing it again would consume the body.
	if r.Form.Get("format") == formatHTML || r.URL.Query().Get("format") == formatHTML {
		return true
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return false
	}
	return strings.Contains(accept, "text/html")
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/idilsaglam/todo-inline/internal/clierr"
)

type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// wantsJSON reports whether the caller should get a JSON error envelope
// instead of an HTML page.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeError answers with the status matching err's code. Errors that are not
// *clierr.Error are reported as internal without leaking their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		s.logger.Error("unhandled error", "path", r.URL.Path, "err", err)
		ce = clierr.New(clierr.InternalError, "internal error")
	}
	status := ce.HTTPStatus()
	if wantsJSON(r) {
		writeJSON(w, status, errorBody{Error: ce.Message, Code: ce.Code, Details: ce.Details})
		return
	}
	s.renderError(w, status, ce)
}

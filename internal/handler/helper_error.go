package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

func WriteError(w http.ResponseWriter, status int, reason string) {
	statusText := strings.ToLower(http.StatusText(status))
	statusText = strings.ReplaceAll(statusText, " ", "_")
	statusText = strings.ReplaceAll(statusText, "'", "")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{ // nolint: errcheck
		Error:  statusText,
		Reason: reason,
	})
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// StatusOf maps store and controller errors to a http status.
func StatusOf(err error) int {
	var perr *model.ParseError
	switch {
	case errors.Is(err, port.ErrNotFound), errors.Is(err, controller.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, port.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, port.ErrInvalidName), errors.As(err, &perr):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrTransient), errors.Is(err, port.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteStoreError writes err with the matching status. Server side
// failures are logged.
func (b Base) WriteStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		b.logger().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	WriteError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) // nolint: errcheck
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"marketproxy/internal/result"
)

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var now = time.Now

// Response is the envelope every route answers with. Data is omitted on failure.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Data       any    `json:"data,omitempty"`
}

func newResponse(code int, message string, data any) Response {
	return Response{
		StatusCode: code,
		Message:    message,
		Timestamp:  now().UTC().Format(timestampLayout),
		Data:       data,
	}
}

// respond maps a service Result onto the envelope. The HTTP status always
// equals the envelope's statusCode.
func respond[T any](w http.ResponseWriter, log *zap.Logger, res result.Result[T], successMessage string) {
	res.Match(
		func(v T) {
			writeJSON(w, log, http.StatusOK, newResponse(http.StatusOK, successMessage, v))
		},
		func(f result.Failure) {
			writeJSON(w, log, f.Code, newResponse(f.Code, f.Message, nil))
		},
	)
}

func writeFailure(w http.ResponseWriter, log *zap.Logger, code int, message string) {
	writeJSON(w, log, code, newResponse(code, message, nil))
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Warn("write response", zap.Error(err))
	}
}

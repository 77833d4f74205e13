// Package httpjson holds the JSON response helpers shared by all handlers:
// a writer for success payloads and a small error envelope with a stable
// machine-readable kind.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error kinds carried in the response envelope. Clients branch on these
// rather than on message text.
const (
	KindInvalidRequest     = "invalid_request"
	KindUnauthorized       = "unauthorized"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindPreconditionFailed = "precondition_failed"
	KindUpstreamFailure    = "upstream_failure"
	KindInternal           = "internal"
)

var kindStatus = map[string]int{
	KindInvalidRequest:     http.StatusBadRequest,
	KindUnauthorized:       http.StatusUnauthorized,
	KindNotFound:           http.StatusNotFound,
	KindConflict:           http.StatusConflict,
	KindPreconditionFailed: http.StatusPreconditionFailed,
	KindUpstreamFailure:    http.StatusBadGateway,
	KindInternal:           http.StatusInternalServerError,
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Respond writes v as a JSON response with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Fail writes the error envelope for the given kind. Unknown kinds are
// reported as internal errors.
func Fail(w http.ResponseWriter, kind, message string) {
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
		kind = KindInternal
	}
	Respond(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}

// Internal logs err and writes a generic internal error without leaking
// details to the client.
func Internal(w http.ResponseWriter, log *zap.Logger, operation string, err error) {
	if log != nil {
		log.Error(operation+" failed", zap.Error(err))
	}
	Fail(w, KindInternal, "internal error")
}

// Decode reads a JSON request body into v. Unknown fields are rejected so
// client typos surface as 400s instead of silently dropped data.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

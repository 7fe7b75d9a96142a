package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope statuses. "fail" marks request-level (4xx) failures, "error" marks
// server-side (5xx) failures, "success" everything else.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RespondJSON writes v with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError converts err to the uniform error envelope. Unknown errors are
// reported as a redacted 500; HTTPError values keep their code, and 4xx
// messages reach the caller verbatim.
func RespondError(w http.ResponseWriter, err error) {
	httpErr := ErrInternalServerError
	var known HTTPError
	if errors.As(err, &known) {
		httpErr = known
	}

	status := StatusFail
	message := httpErr.Message
	if httpErr.Code >= http.StatusInternalServerError {
		// Never leak internal failure detail to the caller.
		status = StatusError
		message = ErrInternalServerError.Message
	}

	RespondJSON(w, httpErr.Code, errorEnvelope{Status: status, Message: message})
}

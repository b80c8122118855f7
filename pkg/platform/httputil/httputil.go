// Package httputil provides shared HTTP response helpers.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "cm-gateway/pkg/domain-errors"
)

// Envelope is the uniform response body for every consent API endpoint.
// Payload is omitted when a response carries no data.
type Envelope struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Payload any    `json:"payload,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteSuccess writes a success envelope with an optional payload.
func WriteSuccess(w http.ResponseWriter, status int, message string, payload any) {
	WriteJSON(w, status, Envelope{
		Message: message,
		Status:  status,
		Payload: payload,
	})
}

// WriteError centralizes domain error translation to HTTP responses.
// The error message and the resolved status code are echoed in the envelope.
func WriteError(w http.ResponseWriter, err error) {
	status := dErrors.StatusOf(err)
	WriteJSON(w, status, Envelope{
		Message: err.Error(),
		Status:  status,
	})
}

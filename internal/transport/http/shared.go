// Package httptransport is the thin HTTP layer over the presentation service.
// Handlers delegate to the service and translate sentinel errors into status
// codes; no business logic lives here.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"attesta/pkg/platform/sentinel"
)

// writeError translates domain errors into the JSON error envelope. Unknown
// identifiers and invalid-state accesses are deliberately not distinguished
// beyond the status code: the body never leaks session internals to wallets.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "server_error"
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, sentinel.ErrInvalidState):
		status = http.StatusBadRequest
		code = "invalid_request"
	case errors.Is(err, sentinel.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
	case errors.Is(err, sentinel.ErrUnavailable):
		status = http.StatusServiceUnavailable
		code = "temporarily_unavailable"
	}
	writeJSON(w, status, map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

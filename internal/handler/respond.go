package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// errorResponse is the body of every 4xx/5xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// errMissingBody is returned by decodeBody when the request has no JSON body.
var errMissingBody = errors.New("missing or malformed JSON body")

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// badRequest writes a 400 with a fixed client-facing message.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// internalError logs err and writes a 500 without leaking details.
func internalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// decodeBody decodes a JSON object into v. An empty body, a non-object body
// or malformed JSON yields errMissingBody.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errMissingBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errMissingBody
		}
		return errors.Join(errMissingBody, err)
	}
	return nil
}

// pathID parses a positive numeric path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

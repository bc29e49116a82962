package api

import (
	"encoding/json"
	"errors"
	"net/http"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error's class to an HTTP status.
func statusFor(err error) int {
	switch perrors.ClassOf(err) {
	case perrors.ClassInvalid:
		return http.StatusBadRequest
	case perrors.ClassNotFound:
		return http.StatusNotFound
	case perrors.ClassConflict:
		return http.StatusConflict
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error body. Uncoded and internal errors
// are logged and replaced by a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(perrors.GetCode(err))
	msg := perrors.UserMessage(err)

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		code, msg = string(perrors.ErrCodeInternal), "internal server error"
	}
	if code == "" {
		code = http.StatusText(status)
	}
	writeStatus(w, status, code, msg)
}

func writeStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

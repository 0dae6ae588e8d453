package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/courtside/tournament-registry/internal/apperr"
	"go.uber.org/zap"
)

// Envelope is the JSON body of every API response: success, message and any
// payload fields side by side.
type Envelope map[string]any

func JSON(w http.ResponseWriter, log *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("write response", zap.Error(err))
	}
}

// Success writes a success envelope. fields may be nil.
func Success(w http.ResponseWriter, log *zap.Logger, status int, message string, fields Envelope) {
	body := Envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, log, status, body)
}

// Decode reads a JSON request body into dst. An empty body leaves dst untouched.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Validation("invalid data", map[string]string{typeErr.Field: "invalid value"})
		}
		return apperr.Wrap(apperr.KindValidation, "malformed JSON body", err)
	}
	return nil
}

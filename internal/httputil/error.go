package httputil

import (
	"errors"
	"net/http"

	"github.com/courtside/tournament-registry/internal/apperr"
	"go.uber.org/zap"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindRegistrationClosed, apperr.KindTournamentFull:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error writes the failure envelope for err. Internal errors are logged with their
// cause and answered with a generic message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	if status == http.StatusInternalServerError {
		InternalServerError(w, log, "internal server error", err)
		return
	}

	body := Envelope{"success": false, "message": err.Error()}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
	}

	log.Debug("request failed", zap.String("kind", string(kind)), zap.Int("status", status), zap.Error(err))
	JSON(w, log, status, body)
}

func InternalServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	JSON(w, log, http.StatusInternalServerError, Envelope{"success": false, "message": "internal server error"})
}

func BadRequest(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	Error(w, log, apperr.Wrap(apperr.KindValidation, msg, err))
}

func NotFound(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	Error(w, log, apperr.Wrap(apperr.KindNotFound, msg, err))
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// internalErrorMessage is the only text a client sees for unexpected failures.
const internalErrorMessage = "internal server error"

// WriteJSON отправляет успешный ответ в конверте {success, data, message}
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any, message string) {
	writeEnvelope(w, logger, status, api.Envelope[any]{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// WriteError отправляет ошибку в конверте {success: false, error}.
// Статус определяется видом ошибки, причина internal ошибок только логируется.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)

	message := internalErrorMessage
	var appErr *apperr.Error
	if kind != apperr.KindInternal && errors.As(err, &appErr) {
		message = appErr.Message
	}
	if kind == apperr.KindInternal {
		logger.Error("request failed", slog.Any("error", err))
	}

	WriteFailure(w, logger, kind.HTTPStatus(), message)
}

// WriteFailure отправляет ошибку с явным статусом и сообщением
func WriteFailure(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeEnvelope(w, logger, status, api.Envelope[any]{Error: message})
}

// WriteInternalError отправляет 500 с общим сообщением, без деталей
func WriteInternalError(w http.ResponseWriter, logger *slog.Logger) {
	WriteFailure(w, logger, http.StatusInternalServerError, internalErrorMessage)
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, status int, body api.Envelope[any]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// decodeJSON разбирает тело запроса, ошибка разбора - это ошибка валидации
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/volley-planning/services" // Импортируем для маппинга ошибок сервисов
)

// envelope — стандартный конверт ответа API: {success, message, data}.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func successResponse(w http.ResponseWriter, logger *slog.Logger, status int, message string, data interface{}) {
	if err := writeJSON(w, status, envelope{Success: true, Message: message, Data: data}); err != nil {
		logger.Error("failed to write JSON response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func errorResponse(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	if err := writeJSON(w, status, envelope{Success: false, Message: message}); err != nil {
		logger.Error("failed to write error JSON response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal server error", slog.Any("error", err))
	errorResponse(w, logger, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
// Наружу уходит только короткое сообщение и корректный статус, никаких
// стек-трейсов.
func mapServiceErrorToHTTP(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	// Не найдено
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrPlanningNotFound),
		errors.Is(err, services.ErrTournamentHasNoTeams):
		errorResponse(w, logger, http.StatusNotFound, err.Error())

	// Гейт валидации и сбои генерации — 400, как и в исходном контракте:
	// "невозможно сгенерировать планирование, проверьте данные турнира".
	case errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrTooManyTeams),
		errors.Is(err, services.ErrNoCourtsAvailable),
		errors.Is(err, services.ErrTournamentTypeEmpty),
		errors.Is(err, services.ErrAssistantFailed),
		errors.Is(err, services.ErrScheduleRejected),
		errors.Is(err, services.ErrGenerationFailed):
		errorResponse(w, logger, http.StatusBadRequest, err.Error())

	// Конфликты
	case errors.Is(err, services.ErrPlanningConflict):
		errorResponse(w, logger, http.StatusConflict, err.Error())

	// Непредвиденные ошибки / ошибки по умолчанию (в т.ч. персистентность)
	default:
		serverErrorResponse(w, logger, err)
	}
}

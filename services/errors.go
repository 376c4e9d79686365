package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации данных турнира перед генерацией. Ни одна из них не
	// должна стоить нам вызова внешнего ассистента.
	ErrNotEnoughTeams       = errors.New("tournament needs at least 2 registered teams")
	ErrTooManyTeams         = errors.New("registered teams exceed the tournament capacity")
	ErrNoCourtsAvailable    = errors.New("tournament has no courts available")
	ErrTournamentTypeEmpty  = errors.New("tournament type is not set")
	ErrTournamentHasNoTeams = errors.New("tournament has no registered teams")

	// Ошибки внешнего ассистента и обработки его ответа
	ErrAssistantFailed   = errors.New("assistant failed to produce a schedule")
	ErrScheduleRejected  = errors.New("assistant response failed schedule validation")
	ErrGenerationFailed  = errors.New("planning generation failed")
	ErrPersistenceFailed = errors.New("failed to persist generated planning")

	// Конфликты
	ErrPlanningConflict = errors.New("a planning is already being generated for this tournament")

	// Специфичные "не найдено"
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlanningNotFound   = errors.New("planning not found")
)

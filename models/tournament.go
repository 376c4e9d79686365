package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentStatusDraft     TournamentStatus = "draft"
	TournamentStatusReady     TournamentStatus = "ready"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusCanceled  TournamentStatus = "canceled"
)

// TournamentType — формат проведения турнира. Планировщик умеет полностью
// раскладывать только round_robin и poules_elimination; остальные форматы
// сохраняются как opaque-документ (см. ScheduleData).
type TournamentType string

const (
	TypeRoundRobin         TournamentType = "round_robin"
	TypeEliminationDirecte TournamentType = "elimination_directe"
	TypePoulesElimination  TournamentType = "poules_elimination"
	TypeDoubleElimination  TournamentType = "double_elimination"
)

// Tournament представляет волейбольный турнир.
type Tournament struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Description          *string          `json:"description,omitempty"`
	TournamentType       TournamentType   `json:"tournament_type"`
	MaxTeams             int              `json:"max_teams"`
	RegisteredTeams      int              `json:"registered_teams"`
	CourtsAvailable      int              `json:"courts_available"`
	StartDate            time.Time        `json:"start_date"`
	StartTime            *string          `json:"start_time,omitempty"` // "09:00"
	MatchDurationMinutes int              `json:"match_duration_minutes"`
	BreakDurationMinutes int              `json:"break_duration_minutes"`
	OrganizerID          *string          `json:"organizer_id,omitempty"`
	Status               TournamentStatus `json:"status"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// TournamentWithTeams — турнир вместе с зарегистрированными командами и
// производными флагами готовности.
type TournamentWithTeams struct {
	Tournament      *Tournament `json:"tournament"`
	Teams           []Team      `json:"teams"`
	TeamsCount      int         `json:"teams_count"`
	HasMinimumTeams bool        `json:"has_minimum_teams"`
	CanStart        bool        `json:"can_start"`
}

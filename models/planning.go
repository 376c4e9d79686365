package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PlanningStatus — жизненный цикл планирования: generating → generated → [failed].
type PlanningStatus string

const (
	PlanningStatusGenerating PlanningStatus = "generating"
	PlanningStatusGenerated  PlanningStatus = "generated"
	PlanningStatusFailed     PlanningStatus = "failed"
)

// MatchPhase — фаза, к которой относится сгенерированный матч.
type MatchPhase string

const (
	PhaseRoundRobin MatchPhase = "round_robin"
	PhasePoules     MatchPhase = "poules"
	PhaseElim       MatchPhase = "elimination"
	PhaseFinale     MatchPhase = "finale"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusResolved  MatchStatus = "resolved"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Planning — сгенерированное ассистентом расписание турнира (шапка).
// PlanningData хранит сырой JSON-ответ ассистента как есть; производные
// строки лежат в ai_generated_match / ai_generated_poule.
type Planning struct {
	ID             string          `json:"id"`
	TournamentID   string          `json:"tournament_id"`
	TournamentType TournamentType  `json:"type_tournoi"`
	Status         PlanningStatus  `json:"status"`
	PlanningData   json.RawMessage `json:"planning_data,omitempty"`
	TotalMatches   int             `json:"total_matches"`
	AIComments     *string         `json:"ai_comments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Детали подгружаются отдельно (GET /api/planning/{id}).
	Matches []GeneratedMatch `json:"matches,omitempty"`
	Pools   []GeneratedPool  `json:"poules,omitempty"`
}

// placeholderPrefixes — ссылки на результат ещё не сыгранного матча
// ("winner_quart_1", "1er_poule_a"). Такие матчи нельзя играть, пока
// предыдущие не завершатся.
var placeholderPrefixes = []string{"winner_", "loser_", "1er_", "2e_"}

// GeneratedMatch — один матч, извлечённый из ответа ассистента.
type GeneratedMatch struct {
	ID              string      `json:"id"`
	PlanningID      string      `json:"planning_id"`
	MatchIDAI       string      `json:"match_id_ai"` // 'poule_a_m1', 'elim_quart_1'
	TeamA           string      `json:"equipe_a"`    // имя команды либо placeholder
	TeamB           string      `json:"equipe_b"`
	Court           int         `json:"terrain"`
	StartsAt        time.Time   `json:"debut_horaire"`
	EndsAt          time.Time   `json:"fin_horaire"`
	Phase           MatchPhase  `json:"phase"`
	PouleID         *string     `json:"poule_id,omitempty"`
	Journee         *int        `json:"journee,omitempty"`
	Status          MatchStatus `json:"status"`
	ResolvedTeamAID *string     `json:"resolved_equipe_a_id,omitempty"`
	ResolvedTeamBID *string     `json:"resolved_equipe_b_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// IsPlaceholder сообщает, ссылается ли матч на исход другого матча вместо
// конкретной команды.
func (m GeneratedMatch) IsPlaceholder() bool {
	return isPlaceholderRef(m.TeamA) || isPlaceholderRef(m.TeamB)
}

func isPlaceholderRef(name string) bool {
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// GeneratedPool — поула (подгруппа round-robin) из ответа ассистента.
type GeneratedPool struct {
	ID         string    `json:"id"`
	PlanningID string    `json:"planning_id"`
	PouleID    string    `json:"poule_id"`  // 'poule_a'
	Name       string    `json:"nom_poule"` // 'Poule A'
	Teams      []string  `json:"equipes"`
	TeamCount  int       `json:"nb_equipes"`
	MatchCount int       `json:"nb_matches"`
	CreatedAt  time.Time `json:"created_at"`
}

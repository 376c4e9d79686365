package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrScheduleNotObject   = errors.New("assistant response must be a JSON object")
	ErrScheduleMissingType = errors.New("assistant response is missing the type_tournoi field")
)

// TournamentFormat — tagged-вариант формата расписания. Нормализатор ветвится
// по нему явно, вместо проверки наличия динамических полей.
type TournamentFormat string

const (
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatPoulesElimination TournamentFormat = "poules_elimination"
	FormatDirectElimination TournamentFormat = "elimination_directe"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatOther             TournamentFormat = "other"
)

// ScheduleMatch — базовый матч внутри ответа ассистента.
type ScheduleMatch struct {
	MatchID  string    `json:"match_id"`
	TeamA    string    `json:"equipe_a"`
	TeamB    string    `json:"equipe_b"`
	StartsAt time.Time `json:"debut_horaire"`
	EndsAt   time.Time `json:"fin_horaire"`
	Court    int       `json:"terrain"`
	Journee  *int      `json:"journee,omitempty"`
}

// Valid проверяет обязательные поля одного матча. Невалидный матч
// пропускается при разложении, не роняя всю генерацию.
func (m ScheduleMatch) Valid() error {
	switch {
	case m.MatchID == "":
		return errors.New("match_id is empty")
	case m.TeamA == "" || m.TeamB == "":
		return errors.New("equipe_a/equipe_b is empty")
	case m.Court <= 0:
		return fmt.Errorf("terrain %d is not positive", m.Court)
	case m.StartsAt.IsZero() || m.EndsAt.IsZero():
		return errors.New("debut_horaire/fin_horaire is missing")
	case !m.EndsAt.After(m.StartsAt):
		return errors.New("fin_horaire is not after debut_horaire")
	}
	return nil
}

// SchedulePool — поула с её матчами.
type SchedulePool struct {
	PouleID string          `json:"poule_id"`
	Name    string          `json:"nom_poule"`
	Teams   []string        `json:"equipes"`
	Matches []ScheduleMatch `json:"matchs"`
}

// EliminationPhase — плей-офф после поул.
type EliminationPhase struct {
	Quarters   []ScheduleMatch `json:"quarts"`
	SemiFinals []ScheduleMatch `json:"demi_finales"`
	Final      *ScheduleMatch  `json:"finale,omitempty"`
	ThirdPlace *ScheduleMatch  `json:"match_troisieme_place,omitempty"`
}

// FinalRanking — итоговая позиция команды, если ассистент её предсказал.
type FinalRanking struct {
	Position int     `json:"position"`
	TeamID   string  `json:"equipe_id"`
	TeamName *string `json:"nom_equipe,omitempty"`
}

// ScheduleData — типизированная форма ответа ассистента. Раскладываются
// только round_robin и poules_elimination; остальные брекеты хранятся как
// passthrough-документы и в строки матчей не разворачиваются.
type ScheduleData struct {
	TypeTournoi string `json:"type_tournoi"`

	RoundRobinMatches []ScheduleMatch   `json:"matchs_round_robin,omitempty"`
	Pools             []SchedulePool    `json:"poules,omitempty"`
	EliminationAfter  *EliminationPhase `json:"phase_elimination_apres_poules,omitempty"`

	RoundsElimination json.RawMessage `json:"rounds_elimination,omitempty"`
	WinnerBracket     json.RawMessage `json:"winner_bracket,omitempty"`
	LoserBracket      json.RawMessage `json:"loser_bracket,omitempty"`
	GrandeFinale      json.RawMessage `json:"grande_finale,omitempty"`

	FinalRanking []FinalRanking `json:"final_ranking,omitempty"`
	Commentaires *string        `json:"commentaires,omitempty"`
}

// ParseScheduleData валидирует сырой ответ ассистента и разбирает его в
// типизированную структуру. Ответ обязан быть JSON-объектом с полем
// type_tournoi; всё остальное опционально.
func ParseScheduleData(raw []byte) (*ScheduleData, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleNotObject, err)
	}
	if _, ok := probe["type_tournoi"]; !ok {
		return nil, ErrScheduleMissingType
	}

	var data ScheduleData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding schedule payload: %w", err)
	}
	if data.TypeTournoi == "" {
		return nil, ErrScheduleMissingType
	}
	return &data, nil
}

// Format возвращает tagged-вариант формата для исчерпывающего ветвления.
func (d *ScheduleData) Format() TournamentFormat {
	switch TournamentType(d.TypeTournoi) {
	case TypeRoundRobin:
		return FormatRoundRobin
	case TypePoulesElimination:
		return FormatPoulesElimination
	case TypeEliminationDirecte:
		return FormatDirectElimination
	case TypeDoubleElimination:
		return FormatDoubleElimination
	default:
		return FormatOther
	}
}

// TotalMatches пересчитывает итоговое число матчей из нормализованной
// структуры. Заявленному ассистентом числу не доверяем.
func (d *ScheduleData) TotalMatches() int {
	total := len(d.RoundRobinMatches)

	for _, pool := range d.Pools {
		total += len(pool.Matches)
	}

	if elim := d.EliminationAfter; elim != nil {
		total += len(elim.Quarters)
		total += len(elim.SemiFinals)
		if elim.Final != nil {
			total++
		}
		if elim.ThirdPlace != nil {
			total++
		}
	}

	return total
}

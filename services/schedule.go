package services

import (
	"log/slog"
	"time"

	"github.com/Dosada05/volley-planning/models"
	"github.com/google/uuid"
)

// ExtractMatches раскладывает нормализованное расписание в плоский список
// строк ai_generated_match. Отдельный битый матч логируется и пропускается —
// генерация в целом не падает из-за одного элемента. Брекеты неизвестных
// форматов (rounds_elimination, winner/loser_bracket) в строки не
// разворачиваются: они хранятся только в сыром payload.
func ExtractMatches(logger *slog.Logger, planningID string, data *models.ScheduleData, now time.Time) []models.GeneratedMatch {
	var matches []models.GeneratedMatch

	for _, m := range data.RoundRobinMatches {
		if err := m.Valid(); err != nil {
			logger.Warn("skipping invalid round robin match",
				slog.String("match_id", m.MatchID), slog.Any("error", err))
			continue
		}
		row := newGeneratedMatch(planningID, m, models.PhaseRoundRobin, now)
		row.Journee = m.Journee
		matches = append(matches, row)
	}

	for _, pool := range data.Pools {
		for _, m := range pool.Matches {
			if err := m.Valid(); err != nil {
				logger.Warn("skipping invalid poule match",
					slog.String("poule_id", pool.PouleID),
					slog.String("match_id", m.MatchID), slog.Any("error", err))
				continue
			}
			row := newGeneratedMatch(planningID, m, models.PhasePoules, now)
			pouleID := pool.PouleID
			row.PouleID = &pouleID
			matches = append(matches, row)
		}
	}

	if elim := data.EliminationAfter; elim != nil {
		appendElim := func(m models.ScheduleMatch, phase models.MatchPhase) {
			if err := m.Valid(); err != nil {
				logger.Warn("skipping invalid elimination match",
					slog.String("match_id", m.MatchID), slog.Any("error", err))
				return
			}
			matches = append(matches, newGeneratedMatch(planningID, m, phase, now))
		}

		for _, m := range elim.Quarters {
			appendElim(m, models.PhaseElim)
		}
		for _, m := range elim.SemiFinals {
			appendElim(m, models.PhaseElim)
		}
		if elim.Final != nil {
			appendElim(*elim.Final, models.PhaseFinale)
		}
		if elim.ThirdPlace != nil {
			appendElim(*elim.ThirdPlace, models.PhaseElim)
		}
	}

	return matches
}

func newGeneratedMatch(planningID string, m models.ScheduleMatch, phase models.MatchPhase, now time.Time) models.GeneratedMatch {
	return models.GeneratedMatch{
		ID:         uuid.NewString(),
		PlanningID: planningID,
		MatchIDAI:  m.MatchID,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		Court:      m.Court,
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		Phase:      phase,
		Status:     models.MatchStatusScheduled,
		CreatedAt:  now,
	}
}

// ExtractPools собирает строки ai_generated_poule с денормализованными
// счётчиками команд и матчей.
func ExtractPools(planningID string, data *models.ScheduleData, now time.Time) []models.GeneratedPool {
	pools := make([]models.GeneratedPool, 0, len(data.Pools))
	for _, pool := range data.Pools {
		pools = append(pools, models.GeneratedPool{
			ID:         uuid.NewString(),
			PlanningID: planningID,
			PouleID:    pool.PouleID,
			Name:       pool.Name,
			Teams:      pool.Teams,
			TeamCount:  len(pool.Teams),
			MatchCount: len(pool.Matches),
			CreatedAt:  now,
		})
	}
	return pools
}

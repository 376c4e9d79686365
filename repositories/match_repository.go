package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/volley-planning/models"
	"github.com/lib/pq"
)

type MatchRepository interface {
	BulkInsert(ctx context.Context, matches []models.GeneratedMatch) error
	ListByPlanningID(ctx context.Context, planningID string) ([]models.GeneratedMatch, error)
	DeleteByPlanningID(ctx context.Context, planningID string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

// BulkInsert вставляет все матчи одного планирования через COPY. Одна
// транзакция на всю пачку: либо все строки, либо ни одной.
func (r *postgresMatchRepository) BulkInsert(ctx context.Context, matches []models.GeneratedMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin matches bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("ai_generated_match",
		"id", "planning_id", "match_id_ai", "equipe_a", "equipe_b",
		"terrain", "debut_horaire", "fin_horaire", "phase",
		"poule_id", "journee", "status", "created_at",
	))
	if err != nil {
		return fmt.Errorf("prepare matches copy: %w", err)
	}

	for _, m := range matches {
		_, err = stmt.ExecContext(ctx,
			m.ID, m.PlanningID, m.MatchIDAI, m.TeamA, m.TeamB,
			m.Court, m.StartsAt, m.EndsAt, m.Phase,
			m.PouleID, m.Journee, m.Status, m.CreatedAt,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("copy match %s: %w", m.MatchIDAI, err)
		}
	}

	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush matches copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close matches copy: %w", err)
	}
	return tx.Commit()
}

func (r *postgresMatchRepository) ListByPlanningID(ctx context.Context, planningID string) ([]models.GeneratedMatch, error) {
	query := `
		SELECT
			id, planning_id, match_id_ai, equipe_a, equipe_b,
			terrain, debut_horaire, fin_horaire, phase,
			poule_id, journee, status,
			resolved_equipe_a_id, resolved_equipe_b_id, created_at
		FROM ai_generated_match
		WHERE planning_id = $1
		ORDER BY debut_horaire, terrain`

	rows, err := r.db.QueryContext(ctx, query, planningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []models.GeneratedMatch
	for rows.Next() {
		var m models.GeneratedMatch
		if err := rows.Scan(
			&m.ID, &m.PlanningID, &m.MatchIDAI, &m.TeamA, &m.TeamB,
			&m.Court, &m.StartsAt, &m.EndsAt, &m.Phase,
			&m.PouleID, &m.Journee, &m.Status,
			&m.ResolvedTeamAID, &m.ResolvedTeamBID, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// DeleteByPlanningID идемпотентен (см. PlanningRepository.Delete).
func (r *postgresMatchRepository) DeleteByPlanningID(ctx context.Context, planningID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ai_generated_match WHERE planning_id = $1`, planningID)
	return err
}

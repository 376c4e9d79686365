package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/volley-planning/models"
	"github.com/lib/pq"
)

type PoolRepository interface {
	BulkInsert(ctx context.Context, pools []models.GeneratedPool) error
	ListByPlanningID(ctx context.Context, planningID string) ([]models.GeneratedPool, error)
	DeleteByPlanningID(ctx context.Context, planningID string) error
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) BulkInsert(ctx context.Context, pools []models.GeneratedPool) error {
	if len(pools) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pools bulk insert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO ai_generated_poule (
			id, planning_id, poule_id, nom_poule, equipes,
			nb_equipes, nb_matches, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, p := range pools {
		_, err = tx.ExecContext(ctx, query,
			p.ID, p.PlanningID, p.PouleID, p.Name, pq.Array(p.Teams),
			p.TeamCount, p.MatchCount, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert poule %s: %w", p.PouleID, err)
		}
	}
	return tx.Commit()
}

func (r *postgresPoolRepository) ListByPlanningID(ctx context.Context, planningID string) ([]models.GeneratedPool, error) {
	query := `
		SELECT id, planning_id, poule_id, nom_poule, equipes,
		       nb_equipes, nb_matches, created_at
		FROM ai_generated_poule
		WHERE planning_id = $1
		ORDER BY poule_id`

	rows, err := r.db.QueryContext(ctx, query, planningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []models.GeneratedPool
	for rows.Next() {
		var p models.GeneratedPool
		if err := rows.Scan(
			&p.ID, &p.PlanningID, &p.PouleID, &p.Name, pq.Array(&p.Teams),
			&p.TeamCount, &p.MatchCount, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func (r *postgresPoolRepository) DeleteByPlanningID(ctx context.Context, planningID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ai_generated_poule WHERE planning_id = $1`, planningID)
	return err
}

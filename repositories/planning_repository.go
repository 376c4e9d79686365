package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/volley-planning/models"
	"github.com/lib/pq"
)

var (
	ErrPlanningNotFound      = errors.New("planning not found")
	ErrPlanningAlreadyExists = errors.New("a live planning already exists for this tournament")
)

type PlanningRepository interface {
	Create(ctx context.Context, planning *models.Planning) error
	GetByID(ctx context.Context, id string) (*models.Planning, error)
	GetByTournamentID(ctx context.Context, tournamentID string) (*models.Planning, error)
	GetStatus(ctx context.Context, id string) (models.PlanningStatus, error)
	MarkGenerated(ctx context.Context, planning *models.Planning) error
	UpdateStatus(ctx context.Context, id string, status models.PlanningStatus) error
	Delete(ctx context.Context, id string) error
}

type postgresPlanningRepository struct {
	db SQLExecutor
}

func NewPostgresPlanningRepository(db SQLExecutor) PlanningRepository {
	return &postgresPlanningRepository{db: db}
}

func (r *postgresPlanningRepository) Create(ctx context.Context, p *models.Planning) error {
	query := `
		INSERT INTO ai_tournament_planning (
			id, tournament_id, type_tournoi, status, planning_data,
			total_matches, ai_comments
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.TournamentID, p.TournamentType, p.Status, nullableRaw(p.PlanningData),
		p.TotalMatches, p.AIComments,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return handlePlanningError(err)
}

func (r *postgresPlanningRepository) GetByID(ctx context.Context, id string) (*models.Planning, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByTournamentID предполагает не больше одного живого планирования на
// турнир; это закреплено частичным уникальным индексом в миграциях.
func (r *postgresPlanningRepository) GetByTournamentID(ctx context.Context, tournamentID string) (*models.Planning, error) {
	return r.getOne(ctx, `WHERE tournament_id = $1 ORDER BY created_at DESC LIMIT 1`, tournamentID)
}

func (r *postgresPlanningRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Planning, error) {
	query := `
		SELECT
			id, tournament_id, type_tournoi, status, planning_data,
			total_matches, ai_comments, created_at, updated_at
		FROM ai_tournament_planning ` + where

	p := &models.Planning{}
	var rawData []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.TournamentID, &p.TournamentType, &p.Status, &rawData,
		&p.TotalMatches, &p.AIComments, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanningNotFound
		}
		return nil, err
	}
	p.PlanningData = rawData
	return p, nil
}

func (r *postgresPlanningRepository) GetStatus(ctx context.Context, id string) (models.PlanningStatus, error) {
	var status models.PlanningStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM ai_tournament_planning WHERE id = $1`, id,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPlanningNotFound
		}
		return "", err
	}
	return status, nil
}

// MarkGenerated переводит планирование в status=generated, записывая сырой
// ответ ассистента и пересчитанные агрегаты.
func (r *postgresPlanningRepository) MarkGenerated(ctx context.Context, p *models.Planning) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE ai_tournament_planning
		SET status = $2, planning_data = $3, total_matches = $4,
		    ai_comments = $5, updated_at = now()
		WHERE id = $1`,
		p.ID, models.PlanningStatusGenerated, nullableRaw(p.PlanningData),
		p.TotalMatches, p.AIComments,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlanningNotFound)
}

func (r *postgresPlanningRepository) UpdateStatus(ctx context.Context, id string, status models.PlanningStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE ai_tournament_planning
		SET status = $2, updated_at = now()
		WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlanningNotFound)
}

// Delete идемпотентен: удаление уже отсутствующей строки — no-op, не ошибка.
// Компенсирующий откат полагается на это при повторных попытках.
func (r *postgresPlanningRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ai_tournament_planning WHERE id = $1`, id)
	return err
}

func handlePlanningError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return ErrPlanningAlreadyExists
		case "foreign_key_violation":
			return ErrTournamentNotFound
		}
	}
	return err
}

// nullableRaw: пустой RawMessage пишем как NULL, а не как пустую строку,
// которая не пройдёт валидацию jsonb.
func nullableRaw(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

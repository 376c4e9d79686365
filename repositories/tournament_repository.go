package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/volley-planning/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db SQLExecutor) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT
			id, name, description, tournament_type, max_teams, courts_available,
			start_date, start_time, match_duration_minutes, break_duration_minutes,
			organizer_id, status, created_at, updated_at
		FROM tournament
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.TournamentType, &t.MaxTeams, &t.CourtsAvailable,
		&t.StartDate, &t.StartTime, &t.MatchDurationMinutes, &t.BreakDurationMinutes,
		&t.OrganizerID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

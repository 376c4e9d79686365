package repositories

import (
	"context"

	"github.com/Dosada05/volley-planning/models"
)

type TeamRepository interface {
	ListByTournamentID(ctx context.Context, tournamentID string) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db SQLExecutor
}

func NewPostgresTeamRepository(db SQLExecutor) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) ListByTournamentID(ctx context.Context, tournamentID string) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, status, created_at
		FROM team
		WHERE tournament_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

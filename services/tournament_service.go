package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/volley-planning/models"
	"github.com/Dosada05/volley-planning/repositories"
)

// TournamentService читает турнир с его командами и решает, пригоден ли он
// для генерации планирования. Только чтение, ничего не мутирует.
type TournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
	}
}

// LoadTournamentWithTeams загружает турнир вместе с командами и вычисляет
// производные флаги. Количество команд всегда пересчитывается из таблицы
// team, кэшированным счётчикам не доверяем. Турнир без единой команды
// считается не найденным для целей планирования.
func (s *TournamentService) LoadTournamentWithTeams(ctx context.Context, tournamentID string) (*models.TournamentWithTeams, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}

	teams, err := s.teamRepo.ListByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("loading teams for tournament %s: %w", tournamentID, err)
	}
	if len(teams) < 1 {
		return nil, ErrTournamentHasNoTeams
	}

	tournament.RegisteredTeams = len(teams)

	return &models.TournamentWithTeams{
		Tournament:      tournament,
		Teams:           teams,
		TeamsCount:      len(teams),
		HasMinimumTeams: len(teams) >= 2,
		CanStart:        len(teams) >= 2 && tournament.Status == models.TournamentStatusReady,
	}, nil
}

// ValidateForPlanning — входной гейт генерации. Любое нарушение обрывает
// запрос ДО обращения к ассистенту: невалидный турнир не должен стоить нам
// внешнего вызова.
func (s *TournamentService) ValidateForPlanning(data *models.TournamentWithTeams) error {
	tournament := data.Tournament

	if data.TeamsCount < 2 {
		return ErrNotEnoughTeams
	}
	if data.TeamsCount > tournament.MaxTeams {
		return ErrTooManyTeams
	}
	if tournament.CourtsAvailable <= 0 {
		return ErrNoCourtsAvailable
	}
	if tournament.TournamentType == "" {
		return ErrTournamentTypeEmpty
	}
	return nil
}

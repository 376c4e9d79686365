// Package testutils содержит in-memory реализации репозиториев и клиента
// ассистента для тестов. Никакой сети и никакого Postgres.
package testutils

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Dosada05/volley-planning/models"
	"github.com/Dosada05/volley-planning/repositories"
)

type FakeTournamentRepo struct {
	Tournaments map[string]*models.Tournament
}

func NewFakeTournamentRepo() *FakeTournamentRepo {
	return &FakeTournamentRepo{Tournaments: make(map[string]*models.Tournament)}
}

func (r *FakeTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := r.Tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

type FakeTeamRepo struct {
	Teams map[string][]models.Team // tournament id -> teams
}

func NewFakeTeamRepo() *FakeTeamRepo {
	return &FakeTeamRepo{Teams: make(map[string][]models.Team)}
}

func (r *FakeTeamRepo) ListByTournamentID(_ context.Context, tournamentID string) ([]models.Team, error) {
	return r.Teams[tournamentID], nil
}

// FakePlanningRepo повторяет контракт postgres-репозитория, включая частичный
// уникальный индекс: второе живое планирование на турнир отклоняется.
type FakePlanningRepo struct {
	mu        sync.Mutex
	Plannings map[string]*models.Planning

	CreateCalls int
	CreateErr   error
	MarkErr     error
}

func NewFakePlanningRepo() *FakePlanningRepo {
	return &FakePlanningRepo{Plannings: make(map[string]*models.Planning)}
}

func (r *FakePlanningRepo) Create(_ context.Context, p *models.Planning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, existing := range r.Plannings {
		if existing.TournamentID == p.TournamentID && existing.Status != models.PlanningStatusFailed {
			return repositories.ErrPlanningAlreadyExists
		}
	}
	copied := *p
	r.Plannings[p.ID] = &copied
	return nil
}

func (r *FakePlanningRepo) GetByID(_ context.Context, id string) (*models.Planning, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Plannings[id]
	if !ok {
		return nil, repositories.ErrPlanningNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *FakePlanningRepo) GetByTournamentID(_ context.Context, tournamentID string) (*models.Planning, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Plannings {
		if p.TournamentID == tournamentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlanningNotFound
}

func (r *FakePlanningRepo) GetStatus(_ context.Context, id string) (models.PlanningStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Plannings[id]
	if !ok {
		return "", repositories.ErrPlanningNotFound
	}
	return p.Status, nil
}

func (r *FakePlanningRepo) MarkGenerated(_ context.Context, p *models.Planning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MarkErr != nil {
		return r.MarkErr
	}
	stored, ok := r.Plannings[p.ID]
	if !ok {
		return repositories.ErrPlanningNotFound
	}
	stored.Status = models.PlanningStatusGenerated
	stored.PlanningData = p.PlanningData
	stored.TotalMatches = p.TotalMatches
	stored.AIComments = p.AIComments
	return nil
}

func (r *FakePlanningRepo) UpdateStatus(_ context.Context, id string, status models.PlanningStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Plannings[id]
	if !ok {
		return repositories.ErrPlanningNotFound
	}
	p.Status = status
	return nil
}

func (r *FakePlanningRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Plannings, id) // идемпотентно, как и в Postgres-реализации
	return nil
}

type FakeMatchRepo struct {
	mu      sync.Mutex
	Matches map[string][]models.GeneratedMatch // planning id -> rows

	InsertCalls int
	InsertErr   error
}

func NewFakeMatchRepo() *FakeMatchRepo {
	return &FakeMatchRepo{Matches: make(map[string][]models.GeneratedMatch)}
}

func (r *FakeMatchRepo) BulkInsert(_ context.Context, matches []models.GeneratedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InsertCalls++
	if r.InsertErr != nil {
		return r.InsertErr
	}
	for _, m := range matches {
		r.Matches[m.PlanningID] = append(r.Matches[m.PlanningID], m)
	}
	return nil
}

func (r *FakeMatchRepo) ListByPlanningID(_ context.Context, planningID string) ([]models.GeneratedMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Matches[planningID], nil
}

func (r *FakeMatchRepo) DeleteByPlanningID(_ context.Context, planningID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Matches, planningID)
	return nil
}

type FakePoolRepo struct {
	mu    sync.Mutex
	Pools map[string][]models.GeneratedPool

	InsertCalls int
	InsertErr   error
}

func NewFakePoolRepo() *FakePoolRepo {
	return &FakePoolRepo{Pools: make(map[string][]models.GeneratedPool)}
}

func (r *FakePoolRepo) BulkInsert(_ context.Context, pools []models.GeneratedPool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InsertCalls++
	if r.InsertErr != nil {
		return r.InsertErr
	}
	for _, p := range pools {
		r.Pools[p.PlanningID] = append(r.Pools[p.PlanningID], p)
	}
	return nil
}

func (r *FakePoolRepo) ListByPlanningID(_ context.Context, planningID string) ([]models.GeneratedPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Pools[planningID], nil
}

func (r *FakePoolRepo) DeleteByPlanningID(_ context.Context, planningID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Pools, planningID)
	return nil
}

// FakeAssistant считает вызовы: тесты гейта валидации проверяют, что на
// невалидном турнире внешний вызов не тратится.
type FakeAssistant struct {
	mu    sync.Mutex
	calls int

	Raw json.RawMessage
	Err error
}

func (f *FakeAssistant) GenerateSchedule(_ context.Context, _ string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Raw, nil
}

func (f *FakeAssistant) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/volley-planning/models"
)

func promptFixture() (*models.Tournament, []models.Team) {
	tournament := &models.Tournament{
		ID:                   "t-1",
		Name:                 "Tournoi de la Plage",
		TournamentType:       models.TypeRoundRobin,
		MaxTeams:             8,
		CourtsAvailable:      2,
		StartDate:            time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		MatchDurationMinutes: 15,
		BreakDurationMinutes: 5,
		Status:               models.TournamentStatusReady,
	}
	teams := []models.Team{
		{ID: "team-1", Name: "Les Smashers"},
		{ID: "team-2", Name: "Block Party"},
		{ID: "team-3", Name: "Net Gains"},
		{ID: "team-4", Name: "Ace Ventura"},
	}
	return tournament, teams
}

func TestBuildPlanningPrompt_deterministic(t *testing.T) {
	tournament, teams := promptFixture()

	first := BuildPlanningPrompt(tournament, teams)
	second := BuildPlanningPrompt(tournament, teams)
	if first != second {
		t.Fatal("prompt must be a pure function of its inputs")
	}
}

func TestBuildPlanningPrompt_encodesConstraints(t *testing.T) {
	tournament, teams := promptFixture()
	prompt := BuildPlanningPrompt(tournament, teams)

	for _, want := range []string{
		"Tournoi de la Plage",
		"- Type: round_robin",
		"- Terrains disponibles: 2",
		"- Durée match: 15 minutes",
		"- Pause entre matchs: 5 minutes",
		"intervalle minimum de 5 minutes",
		"Pas de match entre 12h et 13h30",
		"tous les terrains disponibles",
		"Tous les matchs doivent rentrer dans la journée",
		`"type_tournoi" avec la valeur "round_robin"`,
		"Les Smashers, Block Party, Net Gains, Ace Ventura",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestBuildPlanningPrompt_startTimeDefault(t *testing.T) {
	tournament, teams := promptFixture()

	prompt := BuildPlanningPrompt(tournament, teams)
	if !strings.Contains(prompt, "- Heure de début: 09:00") {
		t.Error("missing default start time 09:00")
	}

	customTime := "10:30"
	tournament.StartTime = &customTime
	prompt = BuildPlanningPrompt(tournament, teams)
	if !strings.Contains(prompt, "- Heure de début: 10:30") {
		t.Error("configured start time should override the default")
	}
}

func TestBuildPlanningPrompt_teamCountTracksTeams(t *testing.T) {
	tournament, teams := promptFixture()
	prompt := BuildPlanningPrompt(tournament, teams[:2])

	if !strings.Contains(prompt, fmt.Sprintf("- Nombre max d'équipes: %d", 2)) {
		t.Error("team count should be derived from the team list, not from max_teams")
	}
}

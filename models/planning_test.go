package models

import "testing"

func TestGeneratedMatch_IsPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		teamA    string
		teamB    string
		expected bool
	}{
		{name: "two literal teams", teamA: "Les Smashers", teamB: "Block Party", expected: false},
		{name: "winner placeholder in team a", teamA: "winner_quart_1", teamB: "Block Party", expected: true},
		{name: "winner placeholder in team b", teamA: "Les Smashers", teamB: "winner_quart_2", expected: true},
		{name: "loser placeholder", teamA: "loser_demi_1", teamB: "loser_demi_2", expected: true},
		{name: "first of pool placeholder", teamA: "1er_poule_a", teamB: "2e_poule_b", expected: true},
		{name: "prefix only counts at start", teamA: "team_winner_fans", teamB: "Block Party", expected: false},
		{name: "empty teams", teamA: "", teamB: "", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := GeneratedMatch{TeamA: tc.teamA, TeamB: tc.teamB}
			if got := m.IsPlaceholder(); got != tc.expected {
				t.Errorf("IsPlaceholder() = %v, expected %v for %q vs %q", got, tc.expected, tc.teamA, tc.teamB)
			}
		})
	}
}

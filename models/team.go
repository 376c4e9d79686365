package models

import "time"

type TeamStatus string

const (
	TeamStatusRegistered TeamStatus = "registered"
	TeamStatusConfirmed  TeamStatus = "confirmed"
	TeamStatusWithdrawn  TeamStatus = "withdrawn"
)

// Team — команда, зарегистрированная в одном турнире.
type Team struct {
	ID           string     `json:"id"`
	TournamentID string     `json:"tournament_id"`
	Name         string     `json:"name"`
	Status       TeamStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

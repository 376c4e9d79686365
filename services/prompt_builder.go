package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/volley-planning/models"
)

// BuildPlanningPrompt собирает инструкцию для ассистента. Чистая функция от
// своих аргументов: никакого I/O, никакой случайности — один и тот же турнир
// всегда даёт один и тот же prompt.
//
// Содержание ограничений (пауза между матчами на одном корте, обеденное окно
// 12:00–13:30, использование всех кортов, один игровой день, формат JSON по
// типу турнира) — это контракт с ассистентом; само расписание целиком на его
// совести.
func BuildPlanningPrompt(tournament *models.Tournament, teams []models.Team) string {
	teamNames := make([]string, len(teams))
	for i, team := range teams {
		teamNames[i] = team.Name
	}

	startTime := "09:00"
	if tournament.StartTime != nil && *tournament.StartTime != "" {
		startTime = *tournament.StartTime
	}

	var b strings.Builder

	b.WriteString("Tu es un expert en organisation de tournois de volley-ball.\n")
	b.WriteString("Génère un planning complet au format JSON pour ce tournoi :\n\n")

	b.WriteString("INFORMATIONS TOURNOI:\n")
	fmt.Fprintf(&b, "- Nom: %s\n", tournament.Name)
	fmt.Fprintf(&b, "- Type: %s\n", tournament.TournamentType)
	fmt.Fprintf(&b, "- Nombre max d'équipes: %d\n", len(teams))
	fmt.Fprintf(&b, "- Équipes: %s\n", strings.Join(teamNames, ", "))
	fmt.Fprintf(&b, "- Terrains disponibles: %d\n", tournament.CourtsAvailable)
	fmt.Fprintf(&b, "- Date de début: %s\n", tournament.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Heure de début: %s\n", startTime)
	fmt.Fprintf(&b, "- Durée match: %d minutes\n", tournament.MatchDurationMinutes)
	fmt.Fprintf(&b, "- Pause entre matchs: %d minutes\n\n", tournament.BreakDurationMinutes)

	b.WriteString("CONTRAINTES OBLIGATOIRES - TRÈS IMPORTANT:\n")
	fmt.Fprintf(&b,
		"GESTION DES TERRAINS: Sur un même terrain, deux matchs consécutifs DOIVENT avoir un intervalle minimum de %d minutes entre la fin du premier match et le début du suivant.\n\n",
		tournament.BreakDurationMinutes)

	b.WriteString("CALCUL DES HORAIRES:\n")
	b.WriteString("- Si un match se termine à 09h20 sur le terrain 1\n")
	b.WriteString("- Et que la pause configurée est de 5 minutes\n")
	b.WriteString("- Le prochain match sur le terrain 1 ne peut commencer AVANT 09h25\n\n")

	b.WriteString("EXEMPLE DE RESPECT DES CONTRAINTES:\n")
	b.WriteString("Terrain 1: Match 1 (09h00-09h15) → Pause 5min → Match 2 (09h20-09h35)\n")
	b.WriteString("Terrain 2: Match 3 (09h00-09h15) → Pause 5min → Match 4 (09h20-09h35)\n\n")

	b.WriteString("CONTRAINTES SUPPLEMENTAIRES:\n")
	b.WriteString("- Tous les matchs doivent rentrer dans la journée\n")
	b.WriteString("- Optimiser l'utilisation des terrains\n")
	b.WriteString("- Éviter les temps d'attente trop longs\n\n")

	b.WriteString("CONTRAINTES OBLIGATOIRES:\n")
	b.WriteString("- Pas de match entre 12h et 13h30.\n")
	b.WriteString("- Tu utilises tous les terrains disponibles pour la plannification des matchs.\n\n")

	b.WriteString("IMPORTANT: Réponds UNIQUEMENT avec du JSON valide selon le type de tournoi.\n")
	b.WriteString("Pour round_robin: utilise la structure avec matchs_round_robin.\n")
	b.WriteString("Pour elimination_directe: utilise la structure avec rounds_elimination.\n")
	b.WriteString("Pour poules_elimination: utilise la structure avec poules et phase_elimination_apres_poules.\n\n")

	fmt.Fprintf(&b,
		"Le JSON doit inclure obligatoirement le champ \"type_tournoi\" avec la valeur \"%s\".\n",
		tournament.TournamentType)

	return b.String()
}

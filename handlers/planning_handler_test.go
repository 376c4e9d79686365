package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/volley-planning/handlers"
	"github.com/Dosada05/volley-planning/live"
	"github.com/Dosada05/volley-planning/models"
	"github.com/Dosada05/volley-planning/routes"
	"github.com/Dosada05/volley-planning/services"
	"github.com/Dosada05/volley-planning/testutils"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// newTestServer поднимает полный роутер на фейках: синхронная генерация,
// без Postgres и без настоящего OpenAI.
func newTestServer(t *testing.T, serviceTokenSecret string) (*httptest.Server, *testutils.FakeAssistant) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tournamentRepo := testutils.NewFakeTournamentRepo()
	teamRepo := testutils.NewFakeTeamRepo()
	tournament := &models.Tournament{
		ID:                   "t-1",
		Name:                 "Tournoi de la Plage",
		TournamentType:       models.TypeRoundRobin,
		MaxTeams:             8,
		CourtsAvailable:      1,
		StartDate:            time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		MatchDurationMinutes: 15,
		BreakDurationMinutes: 5,
		Status:               models.TournamentStatusReady,
	}
	tournamentRepo.Tournaments[tournament.ID] = tournament
	for _, name := range []string{"Team A", "Team B"} {
		teamRepo.Teams[tournament.ID] = append(teamRepo.Teams[tournament.ID], models.Team{
			ID:           strings.ToLower(name),
			TournamentID: tournament.ID,
			Name:         name,
			Status:       models.TeamStatusRegistered,
		})
	}

	fakeAssistant := &testutils.FakeAssistant{Raw: singleMatchPayload(t)}

	planningService := services.NewPlanningService(
		testutils.NewFakePlanningRepo(),
		testutils.NewFakeMatchRepo(),
		testutils.NewFakePoolRepo(),
		services.NewTournamentService(tournamentRepo, teamRepo),
		fakeAssistant,
		nil, nil,
		logger,
		false,
	)

	hub := live.NewHub()
	go hub.Run()

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		handlers.NewPlanningHandler(planningService, logger),
		handlers.NewWebSocketHandler(hub),
		handlers.NewHealthHandler(nil, logger),
		serviceTokenSecret,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, fakeAssistant
}

func singleMatchPayload(t *testing.T) json.RawMessage {
	t.Helper()

	start := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	raw := fmt.Sprintf(`{
		"type_tournoi": "round_robin",
		"matchs_round_robin": [
			{"match_id": "rr_1", "equipe_a": "Team A", "equipe_b": "Team B",
			 "terrain": 1, "debut_horaire": %q, "fin_horaire": %q}
		],
		"commentaires": "Un seul match suffit pour deux équipes"
	}`, start.Format(time.RFC3339), start.Add(15*time.Minute).Format(time.RFC3339))
	return json.RawMessage(raw)
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return env
}

func TestGenerateEndpoint(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{
		"tournament_id": "t-1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, expected 201", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Error("success = false, expected true")
	}
	if env.Message != "Planning généré avec succès" {
		t.Errorf("message = %q", env.Message)
	}

	var planning models.Planning
	if err := json.Unmarshal(env.Data, &planning); err != nil {
		t.Fatalf("decoding planning: %v", err)
	}
	if planning.ID == "" {
		t.Error("planning id must be set")
	}
	if planning.Status != models.PlanningStatusGenerated {
		t.Errorf("status = %s, expected generated (sync mode)", planning.Status)
	}
	if planning.TotalMatches != 1 {
		t.Errorf("total_matches = %d, expected 1", planning.TotalMatches)
	}
}

func TestGenerateEndpoint_badRequests(t *testing.T) {
	server, fakeAssistant := newTestServer(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"tournament_id": `},
		{"missing tournament_id", `{}`},
		{"unknown field", `{"tournoi": "t-1"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/planning/generate", "application/json",
				strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", resp.StatusCode)
			}
			env := decodeEnvelope(t, resp)
			if env.Success {
				t.Error("success must be false on a rejected request")
			}
		})
	}

	if fakeAssistant.Calls() != 0 {
		t.Errorf("assistant called %d times on rejected requests, expected 0", fakeAssistant.Calls())
	}
}

func TestGenerateEndpoint_unknownTournament(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{
		"tournament_id": "missing",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, expected 404", resp.StatusCode)
	}
}

func TestGenerateEndpoint_conflict(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{"tournament_id": "t-1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first generation: status = %d, expected 201", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{"tournament_id": "t-1"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second generation: status = %d, expected 409", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Success {
		t.Error("success must be false on conflict")
	}
}

func TestStatusAndDetailEndpoints(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{"tournament_id": "t-1"})
	env := decodeEnvelope(t, resp)
	var created models.Planning
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decoding planning: %v", err)
	}

	// GET /{planning_id}/status
	resp, err := http.Get(server.URL + "/api/planning/" + created.ID + "/status")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status endpoint: %d, expected 200", resp.StatusCode)
	}
	var statusData struct {
		Status     string `json:"status"`
		PlanningID string `json:"planning_id"`
	}
	env = decodeEnvelope(t, resp)
	if err := json.Unmarshal(env.Data, &statusData); err != nil {
		t.Fatalf("decoding status data: %v", err)
	}
	if statusData.Status != "generated" || statusData.PlanningID != created.ID {
		t.Errorf("status data = %+v", statusData)
	}

	// GET /{planning_id} — детали с матчами
	resp, err = http.Get(server.URL + "/api/planning/" + created.ID)
	if err != nil {
		t.Fatalf("detail request failed: %v", err)
	}
	env = decodeEnvelope(t, resp)
	var detailed models.Planning
	if err := json.Unmarshal(env.Data, &detailed); err != nil {
		t.Fatalf("decoding detailed planning: %v", err)
	}
	if len(detailed.Matches) != 1 {
		t.Errorf("detail endpoint returned %d matches, expected 1", len(detailed.Matches))
	}

	// GET /tournament/{tournament_id}
	resp, err = http.Get(server.URL + "/api/planning/tournament/t-1")
	if err != nil {
		t.Fatalf("tournament lookup failed: %v", err)
	}
	env = decodeEnvelope(t, resp)
	var byTournament models.Planning
	if err := json.Unmarshal(env.Data, &byTournament); err != nil {
		t.Fatalf("decoding planning: %v", err)
	}
	if byTournament.ID != created.ID {
		t.Errorf("lookup by tournament returned %s, expected %s", byTournament.ID, created.ID)
	}
}

func TestStatusEndpoint_notFound(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/api/planning/missing/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", resp.StatusCode)
	}
}

func TestRegenerateEndpoint(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{"tournament_id": "t-1"})
	env := decodeEnvelope(t, resp)
	var created models.Planning
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decoding planning: %v", err)
	}

	resp = postJSON(t, server.URL+"/api/planning/"+created.ID+"/regenerate", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	env = decodeEnvelope(t, resp)
	if env.Message != "Planning régénéré avec succès" {
		t.Errorf("message = %q", env.Message)
	}
	var regenerated models.Planning
	if err := json.Unmarshal(env.Data, &regenerated); err != nil {
		t.Fatalf("decoding planning: %v", err)
	}
	if regenerated.ID == created.ID {
		t.Error("regenerated planning must get a fresh id")
	}

	// Старое планирование больше не видно.
	resp, err := http.Get(server.URL + "/api/planning/" + created.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("old planning: status = %d, expected 404", resp.StatusCode)
	}
}

func TestServiceTokenGuard(t *testing.T) {
	const secret = "test-secret"
	server, fakeAssistant := newTestServer(t, secret)

	// Без токена мутирующий маршрут закрыт.
	resp := postJSON(t, server.URL+"/api/planning/generate", "", map[string]string{"tournament_id": "t-1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, expected 401", resp.StatusCode)
	}
	if fakeAssistant.Calls() != 0 {
		t.Error("assistant must not be called behind a closed route")
	}

	// Чтение остаётся публичным.
	getResp, err := http.Get(server.URL + "/api/planning/missing/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("public read: status = %d, expected 404 (not 401)", getResp.StatusCode)
	}

	// С подписанным токеном — проходит.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "scheduler",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	resp = postJSON(t, server.URL+"/api/planning/generate", signed, map[string]string{"tournament_id": "t-1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status with token = %d, expected 201", resp.StatusCode)
	}
}

func TestRootEndpoint(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Error("success = false, expected true")
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dartscorer/internal/boards"
	"dartscorer/internal/config"
	"dartscorer/internal/engine"
	"dartscorer/internal/game"
	"dartscorer/internal/players"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := engine.DefaultConfig()
	cfg.Debounce = 0
	cfg.BustDelay = 0
	cfg.LegDelay = 0

	srv := &Server{
		Boards:  boards.NewStore(boards.Deps{Engine: cfg}),
		Players: players.NewStore(),
		Presets: config.Presets{
			"x01-20": {Name: "x01-20", Game: game.X01, Options: game.Options{StartScore: 20}},
		},
	}
	ts := httptest.NewServer(NewRouter(srv))
	t.Cleanup(ts.Close)
	return srv, ts
}

// call sends a JSON request and decodes the JSON response into out when
// out is non-nil. It returns the status code.
func call(t *testing.T, method, url string, body, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type throwResponse struct {
	Step    engine.Step   `json:"step"`
	Session *game.Session `json:"session"`
}

func createBoard(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var b boardView
	if code := call(t, "POST", ts.URL+"/api/boards", map[string]string{"name": "Oche"}, &b); code != http.StatusCreated {
		t.Fatalf("create board status = %d, want %d", code, http.StatusCreated)
	}
	return b.Code
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	var body map[string]any
	if code := call(t, "GET", ts.URL+"/health", nil, &body); code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestModes(t *testing.T) {
	_, ts := newTestServer(t)
	var list []game.ModeConfig
	call(t, "GET", ts.URL+"/api/modes", nil, &list)
	if len(list) != 9 {
		t.Fatalf("got %d modes, want 9", len(list))
	}
	seen := map[game.GameID]bool{}
	for _, m := range list {
		seen[m.ID] = true
	}
	for _, id := range []game.GameID{game.X01, game.Cricket, game.Shanghai, game.HalveIt} {
		if !seen[id] {
			t.Errorf("mode %s missing", id)
		}
	}
}

func TestPresets(t *testing.T) {
	_, ts := newTestServer(t)
	var list []config.Preset
	call(t, "GET", ts.URL+"/api/presets", nil, &list)
	if len(list) != 1 || list[0].Name != "x01-20" {
		t.Errorf("presets = %+v", list)
	}
}

func TestPlayers_CRUD(t *testing.T) {
	_, ts := newTestServer(t)

	var p players.Player
	if code := call(t, "POST", ts.URL+"/api/players", map[string]string{"name": "Alice"}, &p); code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", code, http.StatusCreated)
	}
	if p.ID == "" || p.Name != "Alice" {
		t.Errorf("player = %+v", p)
	}

	var got players.Player
	if code := call(t, "GET", ts.URL+"/api/players/"+p.ID, nil, &got); code != http.StatusOK || got.Name != "Alice" {
		t.Errorf("get = %d %+v", code, got)
	}

	var list []players.Player
	call(t, "GET", ts.URL+"/api/players", nil, &list)
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}

	if code := call(t, "DELETE", ts.URL+"/api/players/"+p.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", code, http.StatusNoContent)
	}
	if code := call(t, "GET", ts.URL+"/api/players/"+p.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", code, http.StatusNotFound)
	}
}

func TestPlayers_EmptyName(t *testing.T) {
	_, ts := newTestServer(t)
	if code := call(t, "POST", ts.URL+"/api/players", map[string]string{"name": "  "}, nil); code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", code, http.StatusBadRequest)
	}
}

func TestBoards_CRUD(t *testing.T) {
	_, ts := newTestServer(t)
	code := createBoard(t, ts)

	var b boardView
	if status := call(t, "GET", ts.URL+"/api/boards/"+strings.ToLower(code), nil, &b); status != http.StatusOK {
		t.Fatalf("get status = %d, want %d", status, http.StatusOK)
	}
	if b.Name != "Oche" || b.Session != nil {
		t.Errorf("board = %+v", b)
	}

	var list []boardView
	call(t, "GET", ts.URL+"/api/boards", nil, &list)
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}

	if status := call(t, "DELETE", ts.URL+"/api/boards/"+code, nil, nil); status != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", status, http.StatusNoContent)
	}
	if status := call(t, "GET", ts.URL+"/api/boards/"+code, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", status, http.StatusNotFound)
	}
}

func TestSession_ThrowAndUndo(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/boards/" + createBoard(t, ts)

	start := map[string]any{
		"game":   game.X01,
		"guests": []engine.Entrant{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
	}
	var sess game.Session
	if code := call(t, "POST", base+"/session", start, &sess); code != http.StatusCreated {
		t.Fatalf("start status = %d, want %d", code, http.StatusCreated)
	}
	if len(sess.Players) != 2 || sess.Players[0].Residual != 501 {
		t.Fatalf("session = %+v", sess)
	}

	var res throwResponse
	call(t, "POST", base+"/throw", map[string]any{"segment": "T20"}, &res)
	if !res.Step.Accepted || res.Step.Result.Action != game.ActionContinue {
		t.Errorf("step = %+v", res.Step)
	}
	if got := res.Session.Players[0].Residual; got != 441 {
		t.Errorf("residual = %d, want 441", got)
	}

	call(t, "POST", base+"/throw", map[string]any{"base": 25, "multiplier": 2}, &res)
	if got := res.Session.Players[0].Residual; got != 391 {
		t.Errorf("residual after bull = %d, want 391", got)
	}

	var undo struct {
		Undone  bool          `json:"undone"`
		Session *game.Session `json:"session"`
	}
	call(t, "POST", base+"/undo", nil, &undo)
	if !undo.Undone || undo.Session.Players[0].Residual != 441 {
		t.Errorf("undo = %v residual %d, want true 441", undo.Undone, undo.Session.Players[0].Residual)
	}

	var got game.Session
	call(t, "GET", base+"/session", nil, &got)
	if len(got.TempDarts) != 1 {
		t.Errorf("temp darts = %d, want 1", len(got.TempDarts))
	}
}

func TestSession_SignalRejectedByThrowMode(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/boards/" + createBoard(t, ts)
	call(t, "POST", base+"/session", map[string]any{
		"game":   game.X01,
		"guests": []engine.Entrant{{ID: "a", Name: "Alice"}},
	}, nil)

	var res throwResponse
	call(t, "POST", base+"/throw", map[string]any{"hits": 2}, &res)
	if res.Step.Accepted || res.Step.Reason != engine.DropUnsupported {
		t.Errorf("step = %+v, want %s", res.Step, engine.DropUnsupported)
	}
}

func TestSession_PresetFinishAndRematch(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/boards/" + createBoard(t, ts)

	var p players.Player
	call(t, "POST", ts.URL+"/api/players", map[string]string{"name": "Alice"}, &p)

	var sess game.Session
	if code := call(t, "POST", base+"/session", map[string]any{"preset": "x01-20", "players": []string{p.ID}}, &sess); code != http.StatusCreated {
		t.Fatalf("start status = %d, want %d", code, http.StatusCreated)
	}
	if sess.Players[0].Residual != 20 || sess.Players[0].Name != "Alice" {
		t.Fatalf("session = %+v", sess.Players[0])
	}

	var res throwResponse
	call(t, "POST", base+"/throw", map[string]any{"segment": "S20"}, &res)
	if res.Step.Result.Action != game.ActionWinMatch {
		t.Fatalf("action = %s, want WIN_MATCH", res.Step.Result.Action)
	}
	if res.Session.Status != game.StatusOver || res.Session.Winner != p.ID {
		t.Errorf("session status=%s winner=%s", res.Session.Status, res.Session.Winner)
	}

	var results struct {
		Results []game.ResultSummary `json:"results"`
		Win     *game.WinMessage     `json:"win"`
	}
	call(t, "GET", base+"/results", nil, &results)
	if len(results.Results) != 1 || !results.Results[0].Winner {
		t.Errorf("results = %+v", results.Results)
	}
	if results.Win == nil || results.Win.Title == "" {
		t.Errorf("win = %+v, want a message", results.Win)
	}

	call(t, "POST", base+"/throw", map[string]any{"segment": "S20"}, &res)
	if res.Step.Reason != engine.DropOver {
		t.Errorf("reason after finish = %q, want %q", res.Step.Reason, engine.DropOver)
	}

	if code := call(t, "POST", base+"/rematch", nil, &sess); code != http.StatusCreated {
		t.Fatalf("rematch status = %d, want %d", code, http.StatusCreated)
	}
	if sess.Status != game.StatusRunning || sess.Players[0].Residual != 20 {
		t.Errorf("rematch session = %+v", sess)
	}
}

func TestSession_Errors(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/boards/" + createBoard(t, ts)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"no players", map[string]any{"game": game.X01}, http.StatusBadRequest},
		{"unknown game", map[string]any{"game": "darts-golf", "guests": []engine.Entrant{{ID: "a", Name: "A"}}}, http.StatusBadRequest},
		{"unknown preset", map[string]any{"preset": "nope", "guests": []engine.Entrant{{ID: "a", Name: "A"}}}, http.StatusBadRequest},
		{"unknown player", map[string]any{"game": game.X01, "players": []string{"ghost"}}, http.StatusNotFound},
		{"duplicate", map[string]any{"game": game.X01, "guests": []engine.Entrant{{ID: "a", Name: "A"}, {ID: "a", Name: "A"}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := call(t, "POST", base+"/session", tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}

	if code := call(t, "GET", base+"/session", nil, nil); code != http.StatusConflict {
		t.Errorf("get session status = %d, want %d", code, http.StatusConflict)
	}
	if code := call(t, "POST", base+"/throw", map[string]any{"segment": "T20"}, nil); code != http.StatusConflict {
		t.Errorf("throw without session status = %d, want %d", code, http.StatusConflict)
	}
	if code := call(t, "GET", base+"/results", nil, nil); code != http.StatusConflict {
		t.Errorf("results without session status = %d, want %d", code, http.StatusConflict)
	}
	if code := call(t, "POST", ts.URL+"/api/boards/ZZZZ/throw", map[string]any{"segment": "T20"}, nil); code != http.StatusNotFound {
		t.Errorf("unknown board status = %d, want %d", code, http.StatusNotFound)
	}
}

func TestResults_PlayerNotInGame(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/boards/" + createBoard(t, ts)
	call(t, "POST", base+"/session", map[string]any{
		"game":   game.Cricket,
		"guests": []engine.Entrant{{ID: "a", Name: "Alice"}},
	}, nil)

	var r game.ResultSummary
	if code := call(t, "GET", base+"/results?player=a", nil, &r); code != http.StatusOK || r.PlayerID != "a" {
		t.Errorf("results for a = %d %+v", code, r)
	}
	if code := call(t, "GET", base+"/results?player=zed", nil, nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", code, http.StatusNotFound)
	}
}

func TestAnalytics_WithoutDatabase(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/api/analytics/leaderboard", "/api/analytics/games", "/api/analytics/players/a"} {
		if code := call(t, "GET", ts.URL+path, nil, nil); code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want %d", path, code, http.StatusServiceUnavailable)
		}
	}
}

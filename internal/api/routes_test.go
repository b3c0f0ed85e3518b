package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/auth"
	"github.com/playmatatu/cuesim/internal/config"
	"github.com/playmatatu/cuesim/internal/database"
	"github.com/playmatatu/cuesim/internal/layout"
	"github.com/playmatatu/cuesim/internal/sim"
	"github.com/playmatatu/cuesim/internal/ws"
)

type memLayouts struct {
	mu      sync.Mutex
	layouts map[string]*layout.Layout
}

func (m *memLayouts) Get(ctx context.Context, name string) (*layout.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[name]
	if !ok {
		return nil, database.ErrLayoutNotFound
	}
	return l, nil
}

func (m *memLayouts) Save(ctx context.Context, name string, l *layout.Layout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts[name] = l
	return nil
}

func (m *memLayouts) List(ctx context.Context) ([]database.LayoutInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var infos []database.LayoutInfo
	for name := range m.layouts {
		infos = append(infos, database.LayoutInfo{Name: name})
	}
	return infos, nil
}

type staticShots []database.Shot

func (s staticShots) Recent(ctx context.Context, tableID string, limit int) ([]database.Shot, error) {
	return s, nil
}

type testEnv struct {
	router  *gin.Engine
	cfg     *config.Config
	layouts *memLayouts
	session *sim.Session
	cancel  context.CancelFunc
}

func newTestEnv(t *testing.T, passwordHash string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w, err := layout.Default().Build(0)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Environment:          "test",
		FrontendURL:          "https://pool.example.com",
		TableID:              "main",
		JWTSecret:            "secret",
		ControllerTokenTTL:   time.Hour,
		OperatorPasswordHash: passwordHash,
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := sim.NewSession(cfg.TableID, w, time.Millisecond)
	hub := ws.NewHub()
	go hub.Run(ctx)
	go session.Run(ctx)
	t.Cleanup(cancel)

	env := &testEnv{
		router:  gin.New(),
		cfg:     cfg,
		layouts: &memLayouts{layouts: map[string]*layout.Layout{}},
		session: session,
		cancel:  cancel,
	}
	SetupRoutes(env.router, Deps{
		Config:  cfg,
		Table:   session,
		Hub:     hub,
		Layouts: env.layouts,
		Shots:   staticShots{{TableID: "main", Power: 6}},
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, target, contentType, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, _, err := auth.IssueControllerToken(e.cfg.JWTSecret, e.cfg.TableID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealthAndTable(t *testing.T) {
	env := newTestEnv(t, "")
	waitFor(t, "session start", env.session.Running)

	w := env.do(t, http.MethodGet, "/api/v1/health", "", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"table_id":"main"`) {
		t.Errorf("health: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/table", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("table: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Table-ID") != "main" {
		t.Errorf("X-Table-ID = %q", w.Header().Get("X-Table-ID"))
	}
	var body struct {
		Snapshot struct {
			Balls []json.RawMessage `json:"balls"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Snapshot.Balls) != 26 {
		t.Errorf("snapshot has %d balls, want 26", len(body.Snapshot.Balls))
	}
}

func TestHealthReportsStoppedTable(t *testing.T) {
	env := newTestEnv(t, "")
	waitFor(t, "session start", env.session.Running)

	env.cancel()
	<-env.session.Done()

	w := env.do(t, http.MethodGet, "/api/v1/health", "", "", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"status":"stopped"`) {
		t.Errorf("health after stop: %d %s", w.Code, w.Body.String())
	}
}

func TestPostCommand(t *testing.T) {
	env := newTestEnv(t, "")

	if w := env.do(t, http.MethodPost, "/api/v1/table/commands", "application/json", `{"name":"power_up"}`, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("without token: status %d", w.Code)
	}

	token := env.token(t)
	w := env.do(t, http.MethodPost, "/api/v1/table/commands", "application/json", `{"name":"power_up"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("power_up: %d %s", w.Code, w.Body.String())
	}
	var res sim.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Applied || res.Power != 4 {
		t.Errorf("unexpected result %+v", res)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/table/commands", "application/json", `{"name":"fly"}`, token); w.Code != http.StatusBadRequest {
		t.Errorf("unknown command: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/v1/table/commands", "application/json", `{`, token); w.Code != http.StatusBadRequest {
		t.Errorf("bad body: status %d", w.Code)
	}
}

func TestIssueToken(t *testing.T) {
	hash, err := auth.HashPassword("chalk")
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, hash)

	if w := env.do(t, http.MethodPost, "/api/v1/auth/token", "application/json", `{"password":"cue"}`, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/v1/auth/token", "application/json", `{"password":"chalk"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w := env.do(t, http.MethodPost, "/api/v1/table/commands", "application/json", `{"name":"rack"}`, body.Token); w.Code != http.StatusOK {
		t.Errorf("issued token rejected: %d %s", w.Code, w.Body.String())
	}

	disabled := newTestEnv(t, "")
	if w := disabled.do(t, http.MethodPost, "/api/v1/auth/token", "application/json", `{"password":"chalk"}`, ""); w.Code != http.StatusForbidden {
		t.Errorf("disabled login: status %d", w.Code)
	}
}

func TestLayoutRoutes(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.token(t)

	if w := env.do(t, http.MethodGet, "/api/v1/layouts/standard", "", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing layout: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPut, "/api/v1/layouts/standard", "text/plain", layout.Standard(), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("put without token: status %d", w.Code)
	}

	w := env.do(t, http.MethodPut, "/api/v1/layouts/standard", "text/plain", layout.Standard(), token)
	if w.Code != http.StatusOK {
		t.Fatalf("put text layout: %d %s", w.Code, w.Body.String())
	}

	bad := layout.Default()
	bad.Elasticity = 0.7
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(bad)
	if w := env.do(t, http.MethodPut, "/api/v1/layouts/bad", "application/json", buf.String(), token); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid layout: status %d %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPut, "/api/v1/layouts/junk", "text/plain", "1 2 three", token); w.Code != http.StatusBadRequest {
		t.Errorf("malformed layout: status %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/layouts/standard", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get layout: %d", w.Code)
	}
	var got layout.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Balls) != 20 || len(got.Pockets) != 6 {
		t.Errorf("stored layout has %d balls and %d pockets", len(got.Balls), len(got.Pockets))
	}

	w = env.do(t, http.MethodGet, "/api/v1/layouts", "", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"standard"`) {
		t.Errorf("list layouts: %d %s", w.Code, w.Body.String())
	}
}

func TestShotsRoute(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(t, http.MethodGet, "/api/v1/table/shots?limit=5", "", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"power":6`) {
		t.Errorf("shots: %d %s", w.Code, w.Body.String())
	}
}

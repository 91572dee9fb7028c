package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"careercompass/internal/ai"
	"careercompass/internal/auth"
	"careercompass/internal/catalog"
	"careercompass/internal/config"
	"careercompass/internal/observability"
	"careercompass/internal/types"
)

// newTestServer builds a server with fallback-only AI, mock auth with a tiny
// delay and in-memory session storage, routed through the real middleware
// chain.
func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()

	cfg := &config.Config{}
	cfg.AI.Timeout = time.Second
	cfg.Server.Port = "8080"
	cfg.Server.MaxRequestSize = 1 << 20
	cfg.Gateway.ResumeFeedbackDelay = time.Millisecond
	cfg.Gateway.AuthDelay = time.Millisecond
	cfg.Gateway.InterviewContextMessages = 4
	cfg.Storage.DataDir = "/data"

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	if err != nil {
		t.Fatalf("NewObservabilityManager: %v", err)
	}

	gateway, err := ai.NewGateway(cfg, testLogger, observability.NewGatewayHook(om))
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	t.Cleanup(func() { _ = gateway.Close() })

	s := &Server{
		Version:        "test",
		AppConfig:      cfg,
		Gateway:        gateway,
		Auth:           auth.NewService(time.Millisecond, testLogger),
		Sessions:       NewSessionManager(afero.NewMemMapFs(), "/data", testLogger),
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Logger:         testLogger,
	}
	s.SetAPIKeys(nil)

	return s, s.setupRoutes(om)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	health := decodeBody[map[string]any](t, w)
	if health["status"] != "healthy" {
		t.Errorf("status = %v", health["status"])
	}
	if health["service"] != "careercompass" {
		t.Errorf("service = %v", health["service"])
	}
	if _, ok := health["circuit_breakers"]; !ok {
		t.Error("health payload missing circuit_breakers")
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, mux := newTestServer(t)
	_, _, _ = s.Sessions.Create()

	w := doJSON(t, mux, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	stats := decodeBody[map[string]any](t, w)
	sessions, _ := stats["sessions"].(map[string]any)
	if sessions["active"] != float64(1) {
		t.Errorf("active sessions = %v, want 1", sessions["active"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	_, mux := newTestServer(t)

	// Create.
	w := doJSON(t, mux, http.MethodPost, "/session", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[SessionResponse](t, w)
	if uuid.Validate(created.SessionID) != nil {
		t.Fatalf("session id %q is not a uuid", created.SessionID)
	}
	if created.State.ActivePage != types.PageHome {
		t.Errorf("initial page = %q", created.State.ActivePage)
	}

	// Read back.
	w = doJSON(t, mux, http.MethodGet, "/session/"+created.SessionID+"/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state status = %d", w.Code)
	}

	// Dispatch an action.
	w = doJSON(t, mux, http.MethodPost, "/session/"+created.SessionID+"/dispatch", DispatchRequest{
		Type:    "NAVIGATE",
		Payload: json.RawMessage(`{"page":"JOBS"}`),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("dispatch status = %d: %s", w.Code, w.Body.String())
	}
	dispatched := decodeBody[DispatchResponse](t, w)
	if !dispatched.Applied || dispatched.State.ActivePage != types.PageJobs {
		t.Errorf("dispatch result: applied=%v page=%q", dispatched.Applied, dispatched.State.ActivePage)
	}
}

func TestDispatchEpochFencing(t *testing.T) {
	_, mux := newTestServer(t)

	created := decodeBody[SessionResponse](t, doJSON(t, mux, http.MethodPost, "/session", nil))
	staleEpoch := created.Epoch

	// Logout bumps the epoch.
	w := doJSON(t, mux, http.MethodPost, "/session/"+created.SessionID+"/dispatch", DispatchRequest{Type: "LOGOUT"})
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	afterLogout := decodeBody[DispatchResponse](t, w)
	if afterLogout.Epoch != staleEpoch+1 {
		t.Fatalf("epoch = %d, want %d", afterLogout.Epoch, staleEpoch+1)
	}

	// A completion captured before the logout is dropped.
	w = doJSON(t, mux, http.MethodPost, "/session/"+created.SessionID+"/dispatch", DispatchRequest{
		Type:    "SET_INTERVIEW_SUMMARY",
		Payload: json.RawMessage(`{"summary":{"strengths":"stale","improvements":"stale"}}`),
		Epoch:   &staleEpoch,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("fenced dispatch status = %d", w.Code)
	}
	fenced := decodeBody[DispatchResponse](t, w)
	if fenced.Applied {
		t.Error("stale-epoch dispatch should report applied=false")
	}
	if fenced.State.InterviewSummary != nil {
		t.Error("dropped dispatch must not touch the state")
	}
}

func TestDispatchErrors(t *testing.T) {
	_, mux := newTestServer(t)
	created := decodeBody[SessionResponse](t, doJSON(t, mux, http.MethodPost, "/session", nil))

	t.Run("unknown session", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/session/"+uuid.NewString()+"/dispatch", DispatchRequest{Type: "LOGOUT"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/session/"+created.SessionID+"/dispatch", DispatchRequest{Type: "EXPLODE"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing payload", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/session/"+created.SessionID+"/dispatch", DispatchRequest{Type: "NAVIGATE"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	_, mux := newTestServer(t)

	for _, path := range []string{"/auth/login", "/auth/signup"} {
		t.Run(path, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, path, AuthRequest{Email: "ada@example.com", Password: "pw"})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			user := decodeBody[types.User](t, w)
			if user.UID != "ada@example.com" || user.Email != "ada@example.com" {
				t.Errorf("user = %+v", user)
			}
		})
	}

	t.Run("empty email", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/auth/login", AuthRequest{Password: "pw"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		resp := decodeBody[ErrorResponse](t, w)
		if resp.Error != "Invalid credentials" {
			t.Errorf("error = %q", resp.Error)
		}
	})
}

func TestRoleFitEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("valid profile", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/rolefit", RoleFitRequest{Profile: types.UserProfile{
			Stream: "Computer Science & Engineering", Interests: "building web apps",
		}})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		result := decodeBody[types.RoleFitResult](t, w)
		if len(result.Recommended) == 0 {
			t.Error("expected fallback recommendations for a known stream")
		}
	})

	t.Run("missing stream", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/rolefit", RoleFitRequest{Profile: types.UserProfile{Interests: "x"}})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestRoadmapEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("known role", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/roadmap", RoadmapRequest{RoleID: "frontend_dev"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		weeks := decodeBody[[]types.RoadmapWeek](t, w)
		if len(weeks) == 0 {
			t.Error("expected the fallback roadmap template")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/roadmap", RoadmapRequest{RoleID: "astronaut"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestInterviewEndpoints(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("reply fallback", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/interview/respond", InterviewRequest{
			Messages: []types.ChatMessage{{Sender: types.SenderUser, Text: "I led a migration project."}},
			Field:    "Software Engineering",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		reply := decodeBody[types.ChatMessage](t, w)
		if reply.Sender != types.SenderAI || reply.Text == "" {
			t.Errorf("reply = %+v", reply)
		}
	})

	t.Run("summary short transcript", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/interview/summary", InterviewRequest{
			Messages: []types.ChatMessage{{Sender: types.SenderAI, Text: "Hello."}},
			Field:    "Software Engineering",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		summary := decodeBody[types.InterviewSummary](t, w)
		if summary.Strengths != catalog.StaticInterviewSummary().Strengths {
			t.Error("expected the static summary")
		}
	})

	t.Run("missing field", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/interview/respond", InterviewRequest{
			Messages: []types.ChatMessage{{Sender: types.SenderUser, Text: "hi"}},
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestResumeFeedbackEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/resume/feedback", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	fb := decodeBody[types.ResumeFeedback](t, w)
	if fb.Strengths == "" || len(fb.Points) == 0 {
		t.Errorf("feedback incomplete: %+v", fb)
	}
}

func TestAssessmentEndpoints(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("fetch known", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodGet, "/assessments/sql_adv_1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		a := decodeBody[types.Assessment](t, w)
		if a.ID != "sql_adv_1" || len(a.Questions) == 0 {
			t.Errorf("assessment = %+v", a)
		}
	})

	t.Run("fetch unknown", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodGet, "/assessments/nope", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("recommend unknown role", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/assessments/recommend", AssessmentRecommendRequest{RoleID: "astronaut"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("recommend known role", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/assessments/recommend", AssessmentRecommendRequest{RoleID: "frontend_dev"})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestJobsEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/jobs/match", JobsRequest{Filters: types.JobFilters{
		Experience:  types.FilterAll,
		CompanySize: types.FilterAll,
		Industry:    types.FilterAll,
		WorkStyle:   types.FilterAll,
		Stream:      types.FilterAll,
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	jobs := decodeBody[[]types.JobListing](t, w)
	if len(jobs) != len(catalog.Jobs()) {
		t.Errorf("jobs = %d, want the whole catalog in fallback mode", len(jobs))
	}
}

func TestAPIKeyAuthentication(t *testing.T) {
	s, mux := newTestServer(t)
	s.SetAPIKeys([]string{"k-valid"})

	request := func(configure func(*http.Request)) int {
		r := httptest.NewRequest(http.MethodPost, "/session", nil)
		r.Header.Set("Content-Type", "application/json")
		if configure != nil {
			configure(r)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return w.Code
	}

	if code := request(nil); code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", code)
	}
	if code := request(func(r *http.Request) { r.Header.Set("X-API-Key", "wrong") }); code != http.StatusUnauthorized {
		t.Errorf("invalid key: status = %d, want 401", code)
	}
	if code := request(func(r *http.Request) { r.Header.Set("X-API-Key", "k-valid") }); code != http.StatusCreated {
		t.Errorf("header key: status = %d, want 201", code)
	}
	if code := request(func(r *http.Request) { r.Header.Set("Authorization", "Bearer k-valid") }); code != http.StatusCreated {
		t.Errorf("bearer key: status = %d, want 201", code)
	}

	// Live rotation invalidates the old key.
	s.SetAPIKeys([]string{"k-rotated"})
	if code := request(func(r *http.Request) { r.Header.Set("X-API-Key", "k-valid") }); code != http.StatusUnauthorized {
		t.Errorf("rotated-out key: status = %d, want 401", code)
	}
	if code := request(func(r *http.Request) { r.Header.Set("X-API-Key", "k-rotated") }); code != http.StatusCreated {
		t.Errorf("rotated-in key: status = %d, want 201", code)
	}

	// Health stays open.
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("health with auth enabled: status = %d, want 200", w.Code)
	}
}

func TestRequestSizeLimit(t *testing.T) {
	s, mux := newTestServer(t)
	s.MaxRequestSize = 64

	big := fmt.Sprintf(`{"profile":{"stream":"CS","interests":%q}}`, strings.Repeat("x", 256))
	r := httptest.NewRequest(http.MethodPost, "/rolefit", strings.NewReader(big))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestUnsupportedContentType(t *testing.T) {
	_, mux := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/roadmap", strings.NewReader("roleId=frontend_dev"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", w.Code)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}
	if got := maskAPIKey("abcdefghijkl"); got != "abcdefgh****" {
		t.Errorf("maskAPIKey(long) = %q", got)
	}
}

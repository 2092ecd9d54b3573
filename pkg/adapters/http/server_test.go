package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/session"
)

// MockEngine serves challenges from memory and runs them with the real runtime.
type MockEngine struct {
	loader    *memory.Loader
	WatchFunc func(ctx context.Context) (<-chan string, error)
}

func newMockEngine(t *testing.T) *MockEngine {
	t.Helper()
	endsInOne := domain.Challenge{
		ID:    "ends_in_1",
		Level: 2,
		Name:  "Ends in 1",
		DFA: domain.Automaton{
			States:   []string{"a", "b"},
			Alphabet: []string{"0", "1"},
			Transitions: map[string]map[string]string{
				"a": {"0": "a", "1": "b"},
				"b": {"0": "a", "1": "b"},
			},
			StartState:  "a",
			FinalStates: []string{"b"},
		},
	}
	loader, err := memory.NewLoader(domain.EvenOnes(), endsInOne)
	require.NoError(t, err)
	return &MockEngine{loader: loader}
}

func (m *MockEngine) Run(ctx context.Context, challengeID string, def *domain.Automaton, input string) domain.Result {
	return runtime.Run(def, input)
}
func (m *MockEngine) Challenge(id string) (domain.Challenge, error) { return m.loader.GetChallenge(id) }
func (m *MockEngine) Challenges() ([]domain.Challenge, error)       { return m.loader.ListChallenges() }
func (m *MockEngine) Watch(ctx context.Context) (<-chan string, error) {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx)
	}
	return nil, errors.New("watch not supported")
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSimulate(t *testing.T) {
	handler := NewHandler(newMockEngine(t))

	tests := []struct {
		name     string
		body     string
		status   int
		expected SimulateResponse
	}{
		{
			name:     "Default DFA",
			body:     `{"input_string": "0110"}`,
			status:   http.StatusOK,
			expected: SimulateResponse{Accepted: true, Trace: []string{"q0", "q0", "q1", "q0", "q0"}, Message: "Accepted"},
		},
		{
			name:     "By ID",
			body:     `{"input_string": "01", "dfa_id": "ends_in_1"}`,
			status:   http.StatusOK,
			expected: SimulateResponse{Accepted: true, Trace: []string{"a", "a", "b"}, Message: "Accepted"},
		},
		{
			name:     "Invalid Symbol",
			body:     `{"input_string": "1a"}`,
			status:   http.StatusOK,
			expected: SimulateResponse{Accepted: false, Trace: []string{"q0", "q1"}, Message: "Invalid symbol: a"},
		},
		{
			name: "Inline DFA With CamelCase Keys",
			body: `{"input_string": "xx", "dfa": {
				"states": ["s", "t"], "alphabet": ["x"],
				"transitions": {"s": {"x": "t"}},
				"startState": "s", "finalStates": ["t"]}}`,
			status:   http.StatusOK,
			expected: SimulateResponse{Accepted: false, Trace: []string{"s", "t"}, Message: "No transition from t on x"},
		},
		{
			name:     "Empty Input",
			body:     `{"input_string": ""}`,
			status:   http.StatusOK,
			expected: SimulateResponse{Accepted: true, Trace: []string{"q0"}, Message: "Accepted"},
		},
		{
			name:   "Unknown ID",
			body:   `{"input_string": "1", "dfa_id": "nope"}`,
			status: http.StatusNotFound,
		},
		{
			name:   "Malformed Body",
			body:   `{"input_string": `,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, handler, "POST", "/simulate", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var got SimulateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestChallenges(t *testing.T) {
	handler := NewHandler(newMockEngine(t))

	w := do(t, handler, "GET", "/challenges", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Challenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "even_ones", list[0].ID)

	w = do(t, handler, "GET", "/challenges/ends_in_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var c domain.Challenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "Ends in 1", c.Name)
	assert.Equal(t, "a", c.DFA.StartState)

	w = do(t, handler, "GET", "/challenges/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, handler, "GET", "/challenges/even_ones/graph?input=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph LR")
	assert.Contains(t, w.Body.String(), "class q1 current;")
}

func TestHealthAndInfo(t *testing.T) {
	handler := NewHandler(newMockEngine(t), WithVersion("1.0.0\n"))

	w := do(t, handler, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, handler, "GET", "/info", "")
	assert.JSONEq(t, `{"app":"regexrunner-http","version":"1.0.0"}`, w.Body.String())

	w = do(t, handler, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are opt-in")
}

func TestSessions(t *testing.T) {
	handler := NewHandler(newMockEngine(t), WithSessions(session.NewManager(memory.NewStore())))

	w := do(t, handler, "POST", "/sessions/p1/runs", `{"input": " 11 "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var run RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.True(t, run.Result.Accepted)
	assert.Equal(t, "Accepted • Trace: q0 → q1 → q0", run.Summary)
	assert.Equal(t, 10, run.Session.Score)

	w = do(t, handler, "POST", "/sessions/p1/runs", `{"input": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, handler, "PUT", "/sessions/p1/challenge", `{"challenge_id": "ends_in_1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, handler, "POST", "/sessions/p1/runs", `{"input": "10"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.False(t, run.Result.Accepted)
	assert.Equal(t, "ends_in_1", run.Session.ChallengeID)
	assert.Equal(t, 10, run.Session.Score)
	assert.Equal(t, 2, run.Session.Runs)

	w = do(t, handler, "GET", "/sessions/p1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, handler, "PUT", "/sessions/p1/challenge", `{"challenge_id": "missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, handler, "DELETE", "/sessions/p1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, handler, "GET", "/sessions/p1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, handler, "POST", "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sess domain.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, domain.DefaultChallengeID, sess.ChallengeID)
	assert.NotEmpty(t, sess.ID)
}

func TestSubscribeEvents_Global(t *testing.T) {
	mockEng := newMockEngine(t)
	mockEng.WatchFunc = func(ctx context.Context) (<-chan string, error) {
		ch := make(chan string, 1)
		ch <- "even-ones.yaml"
		close(ch)
		return ch, nil
	}
	handler := NewHandler(mockEng)

	w := do(t, handler, "GET", "/events", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event: ping") {
		t.Error("Expected ping event")
	}
	if !strings.Contains(body, "event: reload\ndata: even-ones.yaml") {
		t.Error("Expected reload data")
	}
}

func TestSubscribeEvents_Unwatchable(t *testing.T) {
	w := do(t, NewHandler(newMockEngine(t)), "GET", "/events", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	handler := NewHandler(newMockEngine(t), WithSessions(session.NewManager(memory.NewStore())))

	// 1. Subscribe
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?session_id=sess-1&watch=score", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	// 2. Rejected run: runs change but the score does not, so it is filtered out
	w := do(t, handler, "POST", "/sessions/sess-1/runs", `{"input": "1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// 3. Accepted run: score changes
	w = do(t, handler, "POST", "/sessions/sess-1/runs", `{"input": "11"}`)
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"score":10`)
	assert.Equal(t, 1, strings.Count(output, "data: {"), "only the scoring diff passes the filter")
}

func TestMatchesWatch(t *testing.T) {
	assert.True(t, matchesWatch(`{"session_id":"s","runs":1}`, []string{"runs"}))
	assert.False(t, matchesWatch(`{"session_id":"s","runs":1}`, []string{"score", "challenge"}))
	assert.True(t, matchesWatch(`{"session_id":"s","appended":[{"input":"1"}]}`, []string{" history "}))
	assert.True(t, matchesWatch(`not json`, []string{"score"}))
}

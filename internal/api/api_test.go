package api_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/semanticguess/internal/api"
	"github.com/mcoot/semanticguess/internal/api/apierr"
	"github.com/mcoot/semanticguess/internal/api/response"
	"github.com/mcoot/semanticguess/internal/factory"
	"github.com/mcoot/semanticguess/internal/middleware"
	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/services/auth"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimiter(t, nil)
}

func newTestServerWithLimiter(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestWords())

	router := api.NewRouter(api.RouterConfig{
		Logger:         zerolog.Nop(),
		GameController: app.GameController,
		RateLimiter:    limiter,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createSession(t *testing.T, capacity int) response.Credentials {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]int{"capacity": capacity}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var creds response.Credentials
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &creds))
	return creds
}

func (ts *testServer) joinSession(t *testing.T, sessionID string) response.Credentials {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sessionID+"/join", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var creds response.Credentials
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &creds))
	return creds
}

func (ts *testServer) state(t *testing.T, token string) response.State {
	t.Helper()
	rr := ts.request(http.MethodGet, "/api/v1/game/state", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var state response.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	return state
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, 2)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var health response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	creds := ts.createSession(t, 2)

	_, err := uuid.Parse(creds.SessionID)
	assert.NoError(t, err)
	assert.NotEmpty(t, creds.PlayerID)
	assert.NotEmpty(t, creds.Token)
}

func TestCreateSessionInvalidCapacity(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []any{map[string]int{"capacity": 0}, map[string]int{"capacity": -3}, nil} {
		rr := ts.request(http.MethodPost, "/api/v1/sessions", body, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, apierr.CodeInvalidCapacity, errorCode(t, rr))
	}
}

func TestCreateSessionHugeCapacity(t *testing.T) {
	ts := newTestServer(t)

	for _, capacity := range []int{1 << 40, math.MaxInt} {
		creds := ts.createSession(t, capacity)
		joined := ts.joinSession(t, creds.SessionID)

		state := ts.state(t, joined.Token)
		assert.Equal(t, capacity, state.Capacity)
		assert.Equal(t, 2, state.PlayersJoined)
		assert.False(t, state.IsTurn)
	}
}

func TestCreateSessionInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestCreateSessionProviderFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockEmbedder.SetError(assert.AnError)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]int{"capacity": 1}, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, apierr.CodeInternalError, errorCode(t, rr))
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

func TestJoinSession(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 2)

	guest := ts.joinSession(t, host.SessionID)
	assert.Equal(t, host.SessionID, guest.SessionID)
	assert.NotEqual(t, host.PlayerID, guest.PlayerID)
}

func TestJoinSessionErrors(t *testing.T) {
	ts := newTestServer(t)
	full := ts.createSession(t, 1)

	tests := []struct {
		name   string
		id     string
		status int
		code   string
	}{
		{"malformed", "not-a-uuid", http.StatusBadRequest, apierr.CodeInvalidSessionID},
		{"unknown", uuid.NewString(), http.StatusNotFound, apierr.CodeSessionNotFound},
		{"full", full.SessionID, http.StatusConflict, apierr.CodeSessionFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/sessions/"+tt.id+"/join", nil, "")
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}
}

func TestStateRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/game/state", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/game/state", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStateWithForeignToken(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 1)

	other, err := auth.New(ts.app.MockClock, auth.DefaultConfig())
	require.NoError(t, err)
	token, err := other.Issue(model.SessionID(host.SessionID), model.PlayerID(host.PlayerID))
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/game/state", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStateWhileFilling(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 2)

	state := ts.state(t, host.Token)
	assert.False(t, state.IsTurn)
	assert.False(t, state.IsGameOver)
	assert.Equal(t, 1, state.PlayersJoined)
	assert.Equal(t, 2, state.Capacity)

	guest := ts.joinSession(t, host.SessionID)
	assert.True(t, ts.state(t, host.Token).IsTurn)
	assert.False(t, ts.state(t, guest.Token).IsTurn)
}

func TestCorrectGuess(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 1) // target is "apple"

	rr := ts.request(http.MethodPost, "/api/v1/game/guess", map[string]string{"guess": "apple"}, host.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result response.Guess
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 0.0, result.Distance)

	state := ts.state(t, host.Token)
	assert.True(t, state.IsGameOver)
	assert.True(t, state.IsWinner)

	rr = ts.request(http.MethodPost, "/api/v1/game/guess", map[string]string{"guess": "apple"}, host.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameOver, errorCode(t, rr))
}

func TestWrongGuessDistance(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockEmbedder.Set("apple", model.Embedding{0, 0})
	ts.app.MockEmbedder.Set("pear", model.Embedding{3, 4})
	host := ts.createSession(t, 1)

	rr := ts.request(http.MethodPost, "/api/v1/game/guess", map[string]string{"guess": "pear"}, host.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var result response.Guess
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 5.0, result.Distance)
}

func TestGuessOutOfTurn(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 2)
	guest := ts.joinSession(t, host.SessionID)

	rr := ts.request(http.MethodPost, "/api/v1/game/guess", map[string]string{"guess": "apple"}, guest.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))
}

func TestEmptyGuess(t *testing.T) {
	ts := newTestServer(t)
	host := ts.createSession(t, 1)

	rr := ts.request(http.MethodPost, "/api/v1/game/guess", map[string]string{"guess": ""}, host.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/sessions", nil, "")
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rr.Code)
}

func TestRateLimited(t *testing.T) {
	ts := newTestServerWithLimiter(t, middleware.NewRateLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/health", nil, "").Code)
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/health", nil, "").Code)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, apierr.CodeRateLimited, errorCode(t, rr))
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

// Legacy routes

func TestLegacyGameFlow(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/create_game", map[string]int{"num_players": 2}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created response.CreateGame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.GameID)
	assert.NotEmpty(t, created.AuthToken)

	// Legacy clients send ids as bare hex
	hexID := uuid.MustParse(created.GameID)
	rr = ts.request(http.MethodPost, "/join_game", map[string]string{"game_id": hexString(hexID)}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var joined response.JoinGame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	assert.NotEmpty(t, joined.AuthToken)

	rr = ts.request(http.MethodPost, "/get_state", map[string]string{"auth_token": created.AuthToken}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var state map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, map[string]any{"is_game_over": false, "is_turn": true}, state)

	rr = ts.request(http.MethodPost, "/make_guess", map[string]string{"guess": "apple", "auth_token": created.AuthToken}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var result response.Guess
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.IsCorrect)
}

func TestLegacyBadToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/get_state", map[string]string{"auth_token": "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/make_guess", map[string]string{"guess": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func hexString(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

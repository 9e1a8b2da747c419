package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/testing/suite"
)

type recordingNotifier struct {
	mu     sync.Mutex
	turns  []entity.MoveResult
	resets int
	ended  []string
}

func (that *recordingNotifier) BroadcastTurn(_ *entity.Session, result entity.MoveResult) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.turns = append(that.turns, result)
}

func (that *recordingNotifier) BroadcastReset(*entity.Session) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.resets++
}

func (that *recordingNotifier) BroadcastEnd(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.ended = append(that.ended, id)
}

type testAPI struct {
	t        *testing.T
	server   *httptest.Server
	notifier *recordingNotifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := suite.Logger()
	manager := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository(0))
	notifier := &recordingNotifier{}

	server := httptest.NewServer(NewRouter(logger, manager, notifier))
	t.Cleanup(server.Close)

	return &testAPI{t: t, server: server, notifier: notifier}
}

func (that *testAPI) do(method, path, body string) (*http.Response, []byte) {
	that.t.Helper()

	req, err := http.NewRequest(method, that.server.URL+path, strings.NewReader(body))
	require.NoError(that.t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(that.t, err)
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(that.t, err)

	return resp, buf.Bytes()
}

func (that *testAPI) createSession() entity.Session {
	that.t.Helper()

	resp, body := that.do(http.MethodPost, "/api/sessions", "")
	require.Equal(that.t, http.StatusCreated, resp.StatusCode)

	var session entity.Session
	require.NoError(that.t, json.Unmarshal(body, &session))

	return session
}

func (that *testAPI) move(id string, cell int) (*http.Response, []byte) {
	that.t.Helper()

	return that.do(http.MethodPost, "/api/sessions/"+id+"/moves", `{"cell":`+strconv.Itoa(cell)+`}`)
}

func TestPing(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestSessionRoutes(t *testing.T) {
	t.Run("Create and get a session", func(t *testing.T) {
		api := newTestAPI(t)

		// When: a session is created
		session := api.createSession()

		// Then: it starts empty with X to move
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.InitialState(), session.State)

		// And: it can be fetched
		resp, body := api.do(http.MethodGet, "/api/sessions/"+session.ID, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"player_turn":"X"`)
	})

	t.Run("Winning sequence updates scores", func(t *testing.T) {
		api := newTestAPI(t)
		session := api.createSession()

		// When: X 0, O 4, X 1, O 7, X 2
		var body []byte
		for _, cell := range []int{0, 4, 1, 7, 2} {
			var resp *http.Response
			resp, body = api.move(session.ID, cell)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		}

		// Then: the last move reports the win
		var response moveResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, entity.OutcomeWin, response.Result.Outcome)
		assert.Equal(t, entity.PlayerX, response.Result.Winner)
		assert.Equal(t, &entity.Line{0, 1, 2}, response.Result.WinningLine)
		assert.Equal(t, entity.StatusWon, response.State.Status)

		// And: the scores endpoint shows it
		resp, body := api.do(http.MethodGet, "/api/sessions/"+session.ID+"/scores", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"x":1,"o":0,"ties":0}`, string(body))

		// And: realtime clients were told about every move
		assert.Len(t, api.notifier.turns, 5)

		// When: another move is attempted
		resp, body = api.move(session.ID, 5)

		// Then: it is rejected with 409 and the finished state
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, string(body), `"error":"game_not_active"`)
		assert.Contains(t, string(body), `"status":"won"`)
	})

	t.Run("Rejections map to status codes", func(t *testing.T) {
		api := newTestAPI(t)
		session := api.createSession()

		resp, _ := api.move(session.ID, 4)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := api.move(session.ID, 4)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, string(body), `"error":"cell_occupied"`)
		assert.Contains(t, string(body), `"player_turn":"O"`)

		resp, body = api.move(session.ID, 9)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), `"error":"invalid_cell"`)

		resp, _ = api.do(http.MethodPost, "/api/sessions/"+session.ID+"/moves", `{"row":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = api.do(http.MethodPost, "/api/sessions/"+session.ID+"/moves", `not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, body = api.move("missing", 0)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"session_not_found"}`, string(body))

		assert.Len(t, api.notifier.turns, 1)
	})

	t.Run("Reset keeps scores", func(t *testing.T) {
		api := newTestAPI(t)
		session := api.createSession()

		for _, cell := range []int{0, 4, 1, 7, 2} {
			resp, _ := api.move(session.ID, cell)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}

		resp, body := api.do(http.MethodPost, "/api/sessions/"+session.ID+"/reset", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reset entity.Session
		require.NoError(t, json.Unmarshal(body, &reset))
		assert.Equal(t, entity.InitialState(), reset.State)
		assert.Equal(t, entity.Scores{X: 1}, reset.Scores)
		assert.Equal(t, 1, api.notifier.resets)
	})

	t.Run("Delete ends the session", func(t *testing.T) {
		api := newTestAPI(t)
		session := api.createSession()

		resp, _ := api.do(http.MethodDelete, "/api/sessions/"+session.ID, "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, []string{session.ID}, api.notifier.ended)

		resp, _ = api.do(http.MethodGet, "/api/sessions/"+session.ID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = api.do(http.MethodDelete, "/api/sessions/"+session.ID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

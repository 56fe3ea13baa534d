package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
)

func newTestApp(t *testing.T, c *config.Config) *App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	a, err := New(log, c)
	require.NoError(t, err)
	return a
}

func testConfig() *config.Config {
	return &config.Config{
		Mode: "development",
		Addr: "127.0.0.1:0",
		JWT:  config.JWTConfig{Secret: "secret", TokenLifetime: time.Hour},
		Sessions: config.SessionsConfig{
			IdleTimeout:   time.Minute,
			SweepInterval: time.Second,
		},
		Difficulties: []config.DifficultyConfig{
			{Name: "strip", Rows: 1, Cols: 3, Mines: 1},
		},
	}
}

type gameResponse struct {
	GameSessionId string `json:"game_session_id"`
	Token         string `json:"token"`
	State         string `json:"state"`
	Grid          []int  `json:"grid"`
	Error         string `json:"error"`
}

func do(t *testing.T, client *http.Client, method, url, token string) (int, gameResponse) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var body gameResponse
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(data) > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(data, &body), string(data))
	}
	return res.StatusCode, body
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, testConfig())
	server := httptest.NewServer(a.Handler())
	defer server.Close()
	client := server.Client()

	res, err := client.Get(server.URL + "/status")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "OK", string(body))

	res, err = client.Get(server.URL + "/difficulties")
	require.NoError(t, err)
	var presets []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&presets))
	res.Body.Close()
	require.Len(t, presets, 4)
	assert.Equal(t, "strip", presets[3]["name"])

	code, created := do(t, client, http.MethodPost, server.URL+"/game?difficulty=strip", "")
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.Token)
	game := server.URL + "/game/" + created.GameSessionId

	code, _ = do(t, client, http.MethodPost, game+"/reveal?row=0&col=1", "")
	assert.Equal(t, http.StatusUnauthorized, code, "token required")

	code, other := do(t, client, http.MethodPost, server.URL+"/game?difficulty=strip", "")
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, client, http.MethodPost, game+"/reveal?row=0&col=1", other.Token)
	assert.Equal(t, http.StatusUnauthorized, code, "token for another game")

	code, fetched := do(t, client, http.MethodGet, game, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "playing", fetched.State)

	code, moved := do(t, client, http.MethodPost, game+"/flag?row=0&col=0", created.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, -1, moved.Grid[0])

	code, moved = do(t, client, http.MethodPost, game+"/reveal?row=0&col=x", created.Token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, moved.Error)

	code, _ = do(t, client, http.MethodDelete, game, created.Token)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, client, http.MethodGet, game, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, client, http.MethodPut, game, created.Token)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestCookieFlow(t *testing.T) {
	c := testConfig()
	c.BasePath = "/api"
	a := newTestApp(t, c)
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	code, created := do(t, client, http.MethodPost, server.URL+"/api/game?rows=1&cols=2&mine_count=1", "")
	require.Equal(t, http.StatusCreated, code)
	game := server.URL + "/api/game/" + created.GameSessionId

	code, first := do(t, client, http.MethodPost, game+"/reveal?row=0&col=0", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", first.State, "the first reveal is always safe")

	url := "ws" + strings.TrimPrefix(game, "http") + "/connect"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+created.Token)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
	var state gameResponse
	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, "won", state.State)
}

func TestCorsPreflight(t *testing.T) {
	c := testConfig()
	c.Mode = "production"
	c.Cors.AllowedOrigins = []string{"https://mines.example"}
	a := newTestApp(t, c)
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://mines.example", "https://mines.example"},
		{"https://evil.example", ""},
	}
	for _, test := range tests {
		t.Run(test.origin, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, server.URL+"/game", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", test.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			res, err := server.Client().Do(req)
			require.NoError(t, err)
			res.Body.Close()

			assert.Equal(t, http.StatusNoContent, res.StatusCode)
			assert.Equal(t, test.want, res.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServe(t *testing.T) {
	a := newTestApp(t, testConfig())
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/status"
	assert.Eventually(t, func() bool {
		res, err := http.Get(url)
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewInvalidPresets(t *testing.T) {
	c := testConfig()
	c.Difficulties = []config.DifficultyConfig{{Name: "full", Rows: 1, Cols: 1, Mines: 1}}
	_, err := New(logrus.New(), c)
	assert.Error(t, err)
}

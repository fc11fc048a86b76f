package testserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/letzcode/letzcode-server/internal/app"
	"github.com/letzcode/letzcode-server/internal/realtime"
	"github.com/letzcode/letzcode-server/internal/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// JWTSecret signs tokens issued by test servers.
const JWTSecret = "test-secret"

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	App    *app.App
	Redis  *miniredis.Miniredis
}

// Option customizes a test server.
type Option func(*options)

type options struct {
	realtime bool
}

// WithRealtime backs the server with an in-process Redis.
func WithRealtime() Option {
	return func(o *options) { o.realtime = true }
}

// New starts a fully wired server on a private in-memory database.
func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ts := &TestServer{DB: db}

	var bus *realtime.Bus
	if o.realtime {
		ts.Redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: ts.Redis.Addr()})
		bus = realtime.NewBusWithClient(client)
		t.Cleanup(func() { _ = bus.Close() })
	}

	ts.App = app.New(app.Options{
		DB:        db,
		Bus:       bus,
		JWTSecret: JWTSecret,
		TokenTTL:  time.Hour,
		EnableMCP: true,
	})
	ts.Server = httptest.NewServer(ts.App.Handler)

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// Response is a decoded API envelope.
type Response struct {
	Status int
	Body   map[string]any
}

// OK reports the envelope's ok flag.
func (r Response) OK() bool {
	ok, _ := r.Body["ok"].(bool)
	return ok
}

// Message returns the envelope's message.
func (r Response) Message() string {
	msg, _ := r.Body["message"].(string)
	return msg
}

// Object returns a nested JSON object.
func (r Response) Object(key string) map[string]any {
	obj, _ := r.Body[key].(map[string]any)
	return obj
}

// List returns a nested JSON array.
func (r Response) List(key string) []any {
	list, _ := r.Body[key].([]any)
	return list
}

// Do sends a JSON request with an optional bearer token.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.Body))
	return out
}

// Account is a signed-up user.
type Account struct {
	ID       string
	Token    string
	Username string
}

// SignUp registers username with a fixed password and returns its token.
func (ts *TestServer) SignUp(t *testing.T, username string) Account {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    username + "@example.com",
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message())

	u := resp.Object("user")
	return Account{
		ID:       u["id"].(string),
		Token:    resp.Body["token"].(string),
		Username: username,
	}
}

// Befriend makes a and b friends through the request/accept flow.
func (ts *TestServer) Befriend(t *testing.T, a, b Account) {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/api/friends/request", a.Token, map[string]any{"userId": b.ID})
	require.Equal(t, http.StatusOK, resp.Status, resp.Message())
	resp = ts.Do(t, http.MethodPost, "/api/friends/accept", b.Token, map[string]any{"userId": a.ID})
	require.Equal(t, http.StatusOK, resp.Status, resp.Message())
}

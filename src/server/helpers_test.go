package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	app "socialserv/src/app"
	cfg "socialserv/src/configuration"
	db "socialserv/src/repository"
)

type fakeVerifier struct {
	identity *app.GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*app.GoogleIdentity, error) {
	return f.identity, f.err
}

type testEnv struct {
	router   *gin.Engine
	users    *db.InMemoryUserDB
	posts    *db.InMemoryPostDB
	verifier *fakeVerifier
	config   *cfg.Properties
}

func testConfig() *cfg.Properties {
	config := &cfg.Properties{}
	config.JWT.Secret = "access-secret"
	config.JWT.RefreshSecret = "refresh-secret"
	config.JWT.Expiration = time.Minute
	config.Server.URL = "http://localhost:3000"
	config.Upload.Backend = "disk"
	config.Upload.Dir = "public"
	return config
}

func newTestEnv(t *testing.T, config *cfg.Properties) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := db.NewInMemoryUserDB()
	posts := db.NewInMemoryPostDB()
	verifier := &fakeVerifier{}

	store, err := app.NewDiskStore(t.TempDir(), config.Server.URL)
	if err != nil {
		t.Fatalf("create disk store: %v", err)
	}

	return &testEnv{
		router:   SetupRouter(config, users, posts, verifier, store),
		users:    users,
		posts:    posts,
		verifier: verifier,
		config:   config,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// register creates an account through the API and returns the response
// body with _id, accessToken and refreshToken.
func (e *testEnv) register(t *testing.T, email, password string) map[string]any {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register",
		gin.H{"email": email, "password": password, "imgUrl": "/img.png"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d body %s", email, w.Code, w.Body.String())
	}
	return decodeBody(t, w)
}

func asString(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	s, ok := body[key].(string)
	if !ok {
		t.Fatalf("response has no string field %q: %v", key, body)
	}
	return s
}

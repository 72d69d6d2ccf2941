package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marquelabs/marque/internal/api"
	"github.com/marquelabs/marque/internal/auth"
	"github.com/marquelabs/marque/internal/ingest"
	"github.com/marquelabs/marque/internal/meta"
	"github.com/marquelabs/marque/internal/reader"
	"github.com/marquelabs/marque/internal/store"
	"github.com/marquelabs/marque/internal/summary"
)

// testEnv wires the full router over the in-memory stores, with the reader
// and summarizer left unconfigured so every ingestion exercises the
// degraded paths deterministically.
type testEnv struct {
	Router    http.Handler
	Users     store.UserStore
	Bookmarks store.BookmarkStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := store.NewMemoryUserStore()
	bookmarks := store.NewMemoryBookmarkStore()
	sessions := auth.NewSessionManager(nil, "memory", time.Hour)

	fetcher := meta.NewFetcher(2*time.Second, "")
	summarizer := summary.New("", "", 80, 2*time.Second)
	pipeline := ingest.New(fetcher, reader.Disabled{}, summarizer, bookmarks)

	router := api.NewRouter(api.Deps{
		Sessions:       sessions,
		AuthMiddleware: auth.NewMiddleware(sessions, users),
		Users:          users,
		Bookmarks:      bookmarks,
		Pipeline:       pipeline,
		Summarizer:     summarizer,
	})

	return &testEnv{Router: router, Users: users, Bookmarks: bookmarks}
}

// signup registers an account through the API and returns the session cookie.
func signup(t *testing.T, env *testEnv, email string) *http.Cookie {
	t.Helper()

	body := map[string]string{"email": email, "password": "hunter2!"}
	rec := doJSON(t, env, http.MethodPost, "/api/v1/auth/signup", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d; body: %s", rec.Code, rec.Body.String())
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("signup response carried no session cookie")
	return nil
}

// doJSON performs a request with an optional JSON body and session cookie.
func doJSON(t *testing.T, env *testEnv, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rec.Body.String())
	}
	return v
}

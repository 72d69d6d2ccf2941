package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marquelabs/marque/internal/api"
	"github.com/marquelabs/marque/internal/store"
)

func servePage(t *testing.T, title string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>%s</title></head></html>`, title)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// seedBookmark inserts a bookmark directly through the store.
func seedBookmark(t *testing.T, env *testEnv, userID, url, title string, tags []string) *store.Bookmark {
	t.Helper()
	bm, err := env.Bookmarks.Create(context.Background(), store.BookmarkFields{
		UserID:  userID,
		URL:     url,
		Title:   title,
		Favicon: "https://example.com/favicon.ico",
		Summary: "summary of " + title,
		Tags:    tags,
	})
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
	return bm
}

func userIDFor(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	u, err := env.Users.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u.ID
}

func TestBookmarks_Create(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")
	page := servePage(t, "Saved Page")

	body := map[string]any{"url": page.URL, "tags": []string{"read-later"}}
	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookmarks", body, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[api.BookmarkResponse](t, rec)
	if resp.Title != "Saved Page" {
		t.Errorf("title = %q", resp.Title)
	}
	if resp.URL != page.URL {
		t.Errorf("url = %q", resp.URL)
	}
	if resp.OrderIndex != 0 {
		t.Errorf("orderIndex = %d, want 0", resp.OrderIndex)
	}
	if resp.Summary == "" {
		t.Error("summary is empty")
	}
	if len(resp.Tags) != 1 || resp.Tags[0] != "read-later" {
		t.Errorf("tags = %v", resp.Tags)
	}
}

func TestBookmarks_CreateMissingURL(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")

	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookmarks", map[string]string{}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBookmarks_CreateUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookmarks", map[string]string{"url": "https://example.com"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBookmarks_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")
	uid := userIDFor(t, env, "alice@example.com")

	seedBookmark(t, env, uid, "https://example.com/go", "Go Patterns", []string{"go", "code"})
	seedBookmark(t, env, uid, "https://example.com/rust", "Rust Intro", []string{"rust", "code"})
	seedBookmark(t, env, uid, "https://example.com/cook", "Bread Recipe", []string{"food"})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/api/v1/bookmarks", 3},
		{"single tag", "/api/v1/bookmarks?tags=code", 2},
		{"all tags must match", "/api/v1/bookmarks?tags=code,go", 1},
		{"query over title", "/api/v1/bookmarks?q=recipe", 1},
		{"query over summary", "/api/v1/bookmarks?q=summary+of+go", 1},
		{"query and tags", "/api/v1/bookmarks?tags=code&q=rust", 1},
		{"no match", "/api/v1/bookmarks?q=zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, env, http.MethodGet, tt.target, nil, cookie)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
			}
			resp := decodeBody[api.BookmarkListResponse](t, rec)
			if len(resp.Items) != tt.want {
				t.Errorf("len(items) = %d, want %d", len(resp.Items), tt.want)
			}
		})
	}
}

func TestBookmarks_ListIsOrdered(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")
	uid := userIDFor(t, env, "alice@example.com")

	for i := 0; i < 3; i++ {
		seedBookmark(t, env, uid, fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("Page %d", i), nil)
	}

	rec := doJSON(t, env, http.MethodGet, "/api/v1/bookmarks", nil, cookie)
	resp := decodeBody[api.BookmarkListResponse](t, rec)
	for i, item := range resp.Items {
		if item.OrderIndex != i {
			t.Errorf("items[%d].orderIndex = %d", i, item.OrderIndex)
		}
	}
}

func TestBookmarks_GetOwnershipScoped(t *testing.T) {
	env := newTestEnv(t)
	aliceCookie := signup(t, env, "alice@example.com")
	bobCookie := signup(t, env, "bob@example.com")
	uid := userIDFor(t, env, "alice@example.com")

	bm := seedBookmark(t, env, uid, "https://example.com", "Mine", nil)

	rec := doJSON(t, env, http.MethodGet, "/api/v1/bookmarks/"+bm.ID, nil, aliceCookie)
	if rec.Code != http.StatusOK {
		t.Errorf("owner status = %d", rec.Code)
	}

	// Another user's bookmark looks absent, not forbidden.
	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookmarks/"+bm.ID, nil, bobCookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("non-owner status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookmarks/missing", nil, aliceCookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBookmarks_UpdatePatchesFields(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")
	uid := userIDFor(t, env, "alice@example.com")
	bm := seedBookmark(t, env, uid, "https://example.com", "Before", []string{"a"})

	body := map[string]any{"title": "After", "orderIndex": 5}
	rec := doJSON(t, env, http.MethodPut, "/api/v1/bookmarks/"+bm.ID, body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[api.BookmarkResponse](t, rec)
	if resp.Title != "After" {
		t.Errorf("title = %q", resp.Title)
	}
	if resp.OrderIndex != 5 {
		t.Errorf("orderIndex = %d, want 5", resp.OrderIndex)
	}
	// Unpatched fields survive.
	if len(resp.Tags) != 1 || resp.Tags[0] != "a" {
		t.Errorf("tags = %v, want [a]", resp.Tags)
	}
	if resp.Summary != bm.Summary {
		t.Errorf("summary changed: %q", resp.Summary)
	}
}

func TestBookmarks_UpdateAbsent(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")

	rec := doJSON(t, env, http.MethodPut, "/api/v1/bookmarks/missing", map[string]string{"title": "x"}, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBookmarks_Delete(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")
	uid := userIDFor(t, env, "alice@example.com")
	bm := seedBookmark(t, env, uid, "https://example.com", "Gone Soon", nil)

	rec := doJSON(t, env, http.MethodDelete, "/api/v1/bookmarks/"+bm.ID, nil, cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookmarks/"+bm.ID, nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Deleting again reports not found at the API layer.
	rec = doJSON(t, env, http.MethodDelete, "/api/v1/bookmarks/"+bm.ID, nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSummary_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := signup(t, env, "alice@example.com")

	rec := doJSON(t, env, http.MethodPost, "/api/v1/summary", map[string]string{"text": "  some   text "}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[api.SummaryResponse](t, rec)
	if resp.Summary != "some text" {
		t.Errorf("summary = %q", resp.Summary)
	}

	rec = doJSON(t, env, http.MethodPost, "/api/v1/summary", map[string]string{}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing text status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

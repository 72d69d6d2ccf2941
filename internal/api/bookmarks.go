package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marquelabs/marque/internal/auth"
	"github.com/marquelabs/marque/internal/ingest"
	"github.com/marquelabs/marque/internal/store"
)

// bookmarksHandler provides REST handlers for the per-user bookmark
// collection. Reads and writes are scoped to the authenticated owner; a
// bookmark owned by someone else is indistinguishable from an absent one.
type bookmarksHandler struct {
	bookmarks store.BookmarkStore
	pipeline  *ingest.Pipeline
}

// List returns the caller's bookmarks in collection order, optionally
// filtered by tags (comma-separated, all must match) and q (substring over
// title and summary, case-insensitive).
// GET /api/v1/bookmarks
func (h *bookmarksHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	items, err := h.bookmarks.ListByUser(r.Context(), user.ID)
	if err != nil {
		log.Printf("api: list bookmarks for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	tags := splitTags(r.URL.Query().Get("tags"))
	q := strings.ToLower(r.URL.Query().Get("q"))

	resp := &BookmarkListResponse{Items: make([]*BookmarkResponse, 0, len(items))}
	for _, bm := range items {
		if !matchesTags(bm, tags) || !matchesQuery(bm, q) {
			continue
		}
		resp.Items = append(resp.Items, toBookmarkResponse(bm))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create ingests a URL into a new bookmark for the caller.
// POST /api/v1/bookmarks
func (h *bookmarksHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required", "BAD_REQUEST")
		return
	}

	bm, err := h.pipeline.Ingest(r.Context(), user.ID, req.URL, ingest.Options{
		Tags:          req.Tags,
		TitleOverride: req.TitleOverride,
	})
	if err != nil {
		log.Printf("api: ingest %q: %v", req.URL, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, toBookmarkResponse(bm))
}

// Get returns a single bookmark owned by the caller.
// GET /api/v1/bookmarks/{id}
func (h *bookmarksHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	bm, ok := h.ownedBookmark(w, r, user.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toBookmarkResponse(bm))
}

// Update patches title, favicon, summary, tags, or orderIndex.
// PUT /api/v1/bookmarks/{id}
func (h *bookmarksHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	bm, ok := h.ownedBookmark(w, r, user.ID)
	if !ok {
		return
	}

	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	updated, err := h.bookmarks.Update(r.Context(), bm.ID, store.BookmarkPatch{
		Title:      req.Title,
		Favicon:    req.Favicon,
		Summary:    req.Summary,
		Tags:       req.Tags,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		log.Printf("api: update bookmark %s: %v", bm.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toBookmarkResponse(updated))
}

// Delete removes a bookmark owned by the caller.
// DELETE /api/v1/bookmarks/{id}
func (h *bookmarksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	bm, ok := h.ownedBookmark(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.bookmarks.Delete(r.Context(), bm.ID); err != nil {
		log.Printf("api: delete bookmark %s: %v", bm.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedBookmark loads the {id} bookmark and enforces ownership, writing the
// error response itself when the lookup fails.
func (h *bookmarksHandler) ownedBookmark(w http.ResponseWriter, r *http.Request, userID string) (*store.Bookmark, bool) {
	id := chi.URLParam(r, "id")
	bm, err := h.bookmarks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return nil, false
		}
		log.Printf("api: get bookmark %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return nil, false
	}
	if bm.UserID != userID {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return nil, false
	}
	return bm, true
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func matchesTags(bm *store.Bookmark, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range bm.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesQuery(bm *store.Bookmark, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(bm.Title), q) ||
		strings.Contains(strings.ToLower(bm.Summary), q)
}

func toBookmarkResponse(bm *store.Bookmark) *BookmarkResponse {
	return &BookmarkResponse{
		ID:         bm.ID,
		UserID:     bm.UserID,
		URL:        bm.URL,
		Title:      bm.Title,
		Favicon:    bm.Favicon,
		Summary:    bm.Summary,
		Tags:       bm.Tags,
		OrderIndex: bm.OrderIndex,
		CreatedAt:  bm.CreatedAt,
		UpdatedAt:  bm.UpdatedAt,
	}
}

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBookmarkStore is the reference BookmarkStore: a single record arena
// keyed by id plus an ordered id list per user. Both views point into the
// arena, so an update can never leave them disagreeing. A single mutex
// serializes mutations; reads copy records out so callers never share
// memory with the arena.
type MemoryBookmarkStore struct {
	mu     sync.RWMutex
	byID   map[string]*Bookmark
	byUser map[string][]string
}

func NewMemoryBookmarkStore() *MemoryBookmarkStore {
	return &MemoryBookmarkStore{
		byID:   make(map[string]*Bookmark),
		byUser: make(map[string][]string),
	}
}

func (s *MemoryBookmarkStore) Create(ctx context.Context, fields BookmarkFields) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	bm := &Bookmark{
		ID:         uuid.New().String(),
		UserID:     fields.UserID,
		URL:        fields.URL,
		Title:      fields.Title,
		Favicon:    fields.Favicon,
		Summary:    fields.Summary,
		Tags:       cloneTags(fields.Tags),
		OrderIndex: len(s.byUser[fields.UserID]),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.byID[bm.ID] = bm
	s.byUser[bm.UserID] = append(s.byUser[bm.UserID], bm.ID)
	return cloneBookmark(bm), nil
}

func (s *MemoryBookmarkStore) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bm, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBookmark(bm), nil
}

func (s *MemoryBookmarkStore) ListByUser(ctx context.Context, userID string) ([]*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*Bookmark, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneBookmark(s.byID[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryBookmarkStore) Update(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bm, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		bm.Title = *patch.Title
	}
	if patch.Favicon != nil {
		bm.Favicon = *patch.Favicon
	}
	if patch.Summary != nil {
		bm.Summary = *patch.Summary
	}
	if patch.Tags != nil {
		bm.Tags = cloneTags(*patch.Tags)
	}
	if patch.OrderIndex != nil {
		bm.OrderIndex = *patch.OrderIndex
	}
	bm.UpdatedAt = time.Now().UTC()
	return cloneBookmark(bm), nil
}

func (s *MemoryBookmarkStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bm, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	ids := s.byUser[bm.UserID]
	for i, candidate := range ids {
		if candidate == id {
			s.byUser[bm.UserID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func cloneBookmark(bm *Bookmark) *Bookmark {
	out := *bm
	out.Tags = cloneTags(bm.Tags)
	return &out
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// MemoryUserStore backs the identity collaborator when running without a
// database.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	if _, ok := s.byEmail[email]; ok {
		return nil, ErrEmailTaken
	}
	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

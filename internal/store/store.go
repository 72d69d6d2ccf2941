package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Bookmark is a saved URL with its ingested metadata. OrderIndex is the
// position within the owner's collection, assigned at creation as the
// owner's bookmark count at that moment. Deletes leave the remaining
// indexes untouched; gaps are accepted.
type Bookmark struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Favicon    string    `json:"favicon"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	OrderIndex int       `json:"orderIndex"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BookmarkFields is the payload for creating a bookmark. ID, OrderIndex, and
// timestamps are assigned by the store.
type BookmarkFields struct {
	UserID  string
	URL     string
	Title   string
	Favicon string
	Summary string
	Tags    []string
}

// BookmarkPatch carries the mutable fields of an update. Nil means
// "leave unchanged".
type BookmarkPatch struct {
	Title      *string
	Favicon    *string
	Summary    *string
	Tags       *[]string
	OrderIndex *int
}

// BookmarkStore is an ordered, per-user bookmark collection. Implementations
// must serialize mutations per user at minimum: two concurrent Creates for
// the same user never receive the same OrderIndex, and the by-id and by-user
// views never disagree at any observable point.
type BookmarkStore interface {
	// Create assigns a fresh ID and OrderIndex (append semantics) and
	// inserts the bookmark.
	Create(ctx context.Context, fields BookmarkFields) (*Bookmark, error)
	// GetByID returns the bookmark or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	// ListByUser returns the owner's bookmarks sorted by OrderIndex
	// ascending, ties broken by CreatedAt ascending. Unknown users get an
	// empty slice, not an error.
	ListByUser(ctx context.Context, userID string) ([]*Bookmark, error)
	// Update applies the non-nil patch fields, refreshes UpdatedAt, and
	// returns the updated record. Returns ErrNotFound for absent ids.
	Update(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error)
	// Delete removes the bookmark from both views. Absent ids are a no-op.
	Delete(ctx context.Context, id string) error
}

// User is a first-party account record. Auth handlers own the password
// hashing; stores only persist the hash.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserStore persists accounts. Emails are stored lowercased and unique.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

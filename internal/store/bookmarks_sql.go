package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLBookmarkStore is a durable BookmarkStore over sqlx. It honors the same
// contract as the in-memory reference: mutations for one user run under a
// per-user lock, so concurrent creates always get distinct indexes and
// concurrent patches never revert each other's fields.
type SQLBookmarkStore struct {
	db        *sqlx.DB
	userLocks sync.Map // userID -> *sync.Mutex
}

func NewSQLBookmarkStore(db *sqlx.DB) *SQLBookmarkStore {
	return &SQLBookmarkStore{db: db}
}

// bookmarkRow mirrors the bookmarks table. Tags are stored as a JSON array
// in a TEXT column so the schema stays portable across drivers.
type bookmarkRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	URL        string    `db:"url"`
	Title      string    `db:"title"`
	Favicon    string    `db:"favicon"`
	Summary    string    `db:"summary"`
	Tags       string    `db:"tags"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *bookmarkRow) toBookmark() (*Bookmark, error) {
	tags := []string{}
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
			return nil, fmt.Errorf("decode tags for bookmark %s: %w", r.ID, err)
		}
	}
	return &Bookmark{
		ID:         r.ID,
		UserID:     r.UserID,
		URL:        r.URL,
		Title:      r.Title,
		Favicon:    r.Favicon,
		Summary:    r.Summary,
		Tags:       tags,
		OrderIndex: r.OrderIndex,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func (s *SQLBookmarkStore) lockUser(userID string) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *SQLBookmarkStore) Create(ctx context.Context, fields BookmarkFields) (*Bookmark, error) {
	unlock := s.lockUser(fields.UserID)
	defer unlock()

	tags, err := encodeTags(fields.Tags)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderIndex int
	err = tx.GetContext(ctx, &orderIndex,
		s.db.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`), fields.UserID)
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO bookmarks (id, user_id, url, title, favicon, summary, tags, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, fields.UserID, fields.URL, fields.Title, fields.Favicon, fields.Summary, tags, orderIndex, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *SQLBookmarkStore) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	var row bookmarkRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM bookmarks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toBookmark()
}

func (s *SQLBookmarkStore) ListByUser(ctx context.Context, userID string) ([]*Bookmark, error) {
	var rows []bookmarkRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT * FROM bookmarks WHERE user_id = ? ORDER BY order_index ASC, created_at ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	out := make([]*Bookmark, 0, len(rows))
	for i := range rows {
		bm, err := rows[i].toBookmark()
		if err != nil {
			return nil, err
		}
		out = append(out, bm)
	}
	return out, nil
}

func (s *SQLBookmarkStore) Update(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error) {
	// Resolve the owner first so the read-modify-write below runs under the
	// same per-user lock as Create. Without it, two concurrent patches of
	// different fields can both read the old row and the later commit would
	// revert the earlier patch.
	var userID string
	err := s.db.GetContext(ctx, &userID, s.db.Rebind(`SELECT user_id FROM bookmarks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	unlock := s.lockUser(userID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row bookmarkRow
	err = tx.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM bookmarks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Favicon != nil {
		row.Favicon = *patch.Favicon
	}
	if patch.Summary != nil {
		row.Summary = *patch.Summary
	}
	if patch.Tags != nil {
		row.Tags, err = encodeTags(*patch.Tags)
		if err != nil {
			return nil, err
		}
	}
	if patch.OrderIndex != nil {
		row.OrderIndex = *patch.OrderIndex
	}
	row.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		UPDATE bookmarks SET title = ?, favicon = ?, summary = ?, tags = ?, order_index = ?, updated_at = ?
		WHERE id = ?
	`), row.Title, row.Favicon, row.Summary, row.Tags, row.OrderIndex, row.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update bookmark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return row.toBookmark()
}

func (s *SQLBookmarkStore) Delete(ctx context.Context, id string) error {
	// Absent ids are a no-op; remaining order indexes are left as-is.
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	return err
}

package api

import "time"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type CreateBookmarkRequest struct {
	URL           string   `json:"url"`
	Tags          []string `json:"tags"`
	TitleOverride string   `json:"titleOverride"`
}

// UpdateBookmarkRequest patches a bookmark. Nil fields are left unchanged.
type UpdateBookmarkRequest struct {
	Title      *string   `json:"title"`
	Favicon    *string   `json:"favicon"`
	Summary    *string   `json:"summary"`
	Tags       *[]string `json:"tags"`
	OrderIndex *int      `json:"orderIndex"`
}

type BookmarkResponse struct {
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

type BookmarkListResponse struct {
	Items []*BookmarkResponse `json:"items"`
}

type SummaryRequest struct {
	Text string `json:"text"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

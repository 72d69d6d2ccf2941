// Package summary produces a short summary for arbitrary text, preferring a
// configured summarization endpoint and falling back to a deterministic
// truncation. Summarize never returns an error.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxFallbackLen is the longest output the truncation fallback produces.
// When the collapsed input exceeds it, the output is cut here and a single
// ellipsis character is appended.
const maxFallbackLen = 220

// Summarizer calls an optional remote summarization endpoint. When the
// endpoint is unset, fails, or returns an empty summary, the deterministic
// Truncate fallback is used instead.
type Summarizer struct {
	endpoint string
	apiKey   string
	length   int
	client   *http.Client
}

// New creates a Summarizer. endpoint and apiKey may be empty; length is the
// target summary length hint sent to the endpoint.
func New(endpoint, apiKey string, length int, timeout time.Duration) *Summarizer {
	return &Summarizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		length:   length,
		client:   &http.Client{Timeout: timeout},
	}
}

// Summarize returns a short summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if s.endpoint != "" && s.apiKey != "" {
		if out := s.remote(ctx, text); out != "" {
			return out
		}
	}
	return Truncate(text)
}

type summarizeRequest struct {
	Input  string `json:"input"`
	Length int    `json:"length"`
}

// summarizeResponse accepts the summary either at the top level or nested
// under data, matching the known endpoint shapes.
type summarizeResponse struct {
	Summary string `json:"summary"`
	Data    struct {
		Summary string `json:"summary"`
	} `json:"data"`
}

func (s *Summarizer) remote(ctx context.Context, text string) string {
	payload, err := json.Marshal(summarizeRequest{Input: text, Length: s.length})
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	var parsed summarizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Summary != "" {
		return parsed.Summary
	}
	return parsed.Data.Summary
}

// Truncate is the deterministic fallback: whitespace runs collapse to
// single spaces, the result is trimmed, and anything past 220 characters is
// cut with a trailing ellipsis.
func Truncate(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= maxFallbackLen {
		return collapsed
	}
	return string(runes[:maxFallbackLen]) + "…"
}

package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marquelabs/marque/internal/auth"
	"github.com/marquelabs/marque/internal/ingest"
	"github.com/marquelabs/marque/internal/store"
	"github.com/marquelabs/marque/internal/summary"
)

// Deps holds all dependencies required to build the router.
type Deps struct {
	Sessions       *scs.SessionManager
	AuthMiddleware *auth.Middleware
	Users          store.UserStore
	Bookmarks      store.BookmarkStore
	Pipeline       *ingest.Pipeline
	Summarizer     *summary.Summarizer
}

// NewRouter builds the full application router: health and metrics at the
// root, the JSON API under /api/v1 with session-cookie authentication on
// everything except signup and login.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(deps.Sessions.LoadAndSave)
		v1.Use(jsonContentType)

		ah := &authHandler{sessions: deps.Sessions, users: deps.Users}
		v1.Post("/auth/signup", ah.Signup)
		v1.Post("/auth/login", ah.Login)
		v1.Post("/auth/logout", ah.Logout)

		v1.Group(func(pr chi.Router) {
			pr.Use(deps.AuthMiddleware.RequireUser)

			pr.Get("/auth/me", ah.Me)

			bh := &bookmarksHandler{bookmarks: deps.Bookmarks, pipeline: deps.Pipeline}
			pr.Get("/bookmarks", bh.List)
			pr.Post("/bookmarks", bh.Create)
			pr.Get("/bookmarks/{id}", bh.Get)
			pr.Put("/bookmarks/{id}", bh.Update)
			pr.Delete("/bookmarks/{id}", bh.Delete)

			sh := &summaryHandler{summarizer: deps.Summarizer}
			pr.Post("/summary", sh.Summarize)
		})
	})

	return r
}

// jsonContentType sets Content-Type: application/json on all API responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

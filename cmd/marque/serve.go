package main

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/marquelabs/marque/internal/api"
	"github.com/marquelabs/marque/internal/auth"
	"github.com/marquelabs/marque/internal/config"
	"github.com/marquelabs/marque/internal/db"
	"github.com/marquelabs/marque/internal/ingest"
	"github.com/marquelabs/marque/internal/meta"
	"github.com/marquelabs/marque/internal/reader"
	"github.com/marquelabs/marque/internal/store"
	"github.com/marquelabs/marque/internal/summary"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var (
				users     store.UserStore
				bookmarks store.BookmarkStore
				sessionDB *sqlx.DB
			)
			if cfg.DB.Driver == "memory" {
				users = store.NewMemoryUserStore()
				bookmarks = store.NewMemoryBookmarkStore()
			} else {
				database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()

				if err := db.Migrate(database, cfg.DB.Driver); err != nil {
					return err
				}
				users = store.NewSQLUserStore(database)
				bookmarks = store.NewSQLBookmarkStore(database)
				sessionDB = database
			}

			sessionManager := auth.NewSessionManager(sessionDB, cfg.DB.Driver, cfg.SessionLifetime)
			authMiddleware := auth.NewMiddleware(sessionManager, users)

			fetcher := meta.NewFetcher(cfg.Fetch.Timeout, cfg.FaviconService)
			extractor := reader.New(cfg.Reader.Provider, cfg.Reader.BaseURL, cfg.Reader.APIKey, cfg.Reader.Timeout)
			summarizer := summary.New(cfg.Summarizer.Endpoint, cfg.Summarizer.APIKey, cfg.Summarizer.Length, cfg.Summarizer.Timeout)
			pipeline := ingest.New(fetcher, extractor, summarizer, bookmarks)

			router := api.NewRouter(api.Deps{
				Sessions:       sessionManager,
				AuthMiddleware: authMiddleware,
				Users:          users,
				Bookmarks:      bookmarks,
				Pipeline:       pipeline,
				Summarizer:     summarizer,
			})

			log.Printf("listening on %s (store: %s)", cfg.HTTP.Addr, cfg.DB.Driver)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

package auth

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const SessionUserIDKey = "user_id"

// NewSessionManager creates an SCS session manager backed by the
// application DB. driver selects the store adapter: "mysql", "postgres", or
// "sqlite3" (default). Pass a nil db for the in-memory store used when the
// whole service runs without a database.
func NewSessionManager(db *sqlx.DB, driver string, lifetime time.Duration) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		switch driver {
		case "mysql":
			sm.Store = mysqlstore.New(db.DB)
		case "postgres":
			sm.Store = postgresstore.New(db.DB)
		default: // sqlite3
			sm.Store = sqlite3store.New(db.DB)
		}
	}
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

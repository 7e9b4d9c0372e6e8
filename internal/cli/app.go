// Package cli implements the interactive diary client: a small REPL over
// the application services.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
	_ "modernc.org/sqlite"

	"github.com/mydayapp/myday/internal/auth"
	"github.com/mydayapp/myday/internal/config"
	"github.com/mydayapp/myday/internal/logging"
	"github.com/mydayapp/myday/internal/remote"
	"github.com/mydayapp/myday/internal/repositories/entries"
	"github.com/mydayapp/myday/internal/services"
	syncer "github.com/mydayapp/myday/internal/sync"
)

type App struct {
	config        *config.Config
	log           logging.Logger
	session       *auth.Session
	authenticator auth.Authenticator
	store         *entries.Store
	diary         services.DiaryService
	profiles      services.ProfileService
	reconciler    *syncer.Reconciler
	reader        *bufio.Reader
}

// NewApp wires the store, gateways and services together. The returned App
// owns the store handle; Close releases it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(parseLevel(cfg.LogLevel), cfg.LogFile)

	store, err := entries.OpenDatabase(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	client, err := kivik.New("couch", cfg.CouchURL)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	gateway := remote.NewCouchGateway(client, cfg.EntriesDB, cfg.UsersDB)

	session := &auth.Session{}
	authenticator := auth.NewIdentityClient(cfg.IdentityURL, session)

	return &App{
		config:        cfg,
		log:           log,
		session:       session,
		authenticator: authenticator,
		store:         store,
		diary:         services.NewDiaryService(store, gateway, session, log),
		profiles:      services.NewProfileService(gateway, session),
		reconciler:    syncer.NewReconciler(store, gateway, session, log),
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.UserID()
	return ok
}

func (a *App) status() string {
	if uid, ok := a.session.UserID(); ok {
		return uid
	}
	return "signed out"
}

// Run starts the REPL and blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error(context.Background(), "closing store", "err", err)
	}
}

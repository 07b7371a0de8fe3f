// Package server initializes and runs the users service: it opens the
// database, applies migrations, wires the user service into the HTTP server
// and shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/userservice/internal/logging"
	"github.com/dmitrijs2005/userservice/internal/server/config"
	"github.com/dmitrijs2005/userservice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userservice/internal/server/services"
	"github.com/dmitrijs2005/userservice/internal/server/web"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// pingTimeout bounds the start-up database reachability check.
const pingTimeout = 5 * time.Second

// runner is what App drives; *web.Server satisfies it.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      runner
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewLogger(os.Stdout, c.Debug).With("profile", string(c.Profile))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(db, rm)

	srv, err := web.NewServer(c.EndpointAddrHTTP, logger, us,
		web.WithShutdownTimeout(c.ShutdownTimeout),
		web.WithRateLimit(c.WriteRateLimit(), c.RateLimitWindow),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("web init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, repomanager: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepareDB checks that the database is reachable and brings the schema up to date.
func (app *App) prepareDB(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := app.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// Run blocks until ctx is cancelled or a signal arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	if err := app.prepareDB(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

// Package server initializes and runs the application: it opens the
// database, applies migrations, connects the object store and the speech
// synthesizer, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/starfox1230/memorize/internal/logging"
	"github.com/starfox1230/memorize/internal/server/config"
	mhttp "github.com/starfox1230/memorize/internal/server/http"
	"github.com/starfox1230/memorize/internal/server/http/handlers"
	"github.com/starfox1230/memorize/internal/server/repositories/repomanager"
	"github.com/starfox1230/memorize/internal/server/services"
	"github.com/starfox1230/memorize/internal/server/storage"
	"github.com/starfox1230/memorize/internal/server/tts"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *mhttp.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := storage.NewS3Client(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	synthesizer := tts.NewClient(c)

	audioService := services.NewAudioService(db, rm, store, synthesizer, c)
	handler := handlers.NewAPIHandler(audioService, logger)
	server := mhttp.NewServer(c, handler, logger)

	return &App{config: c, logger: logger, db: db, server: server}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

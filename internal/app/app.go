// Package app initializes and runs the bot process: the database layer, the
// Telegram transport, the moderation pipeline, and the keepalive HTTP
// server, with graceful shutdown on OS signals.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"campus-notes-bot/internal/archive"
	"campus-notes-bot/internal/bot"
	"campus-notes-bot/internal/config"
	"campus-notes-bot/internal/logging"
	"campus-notes-bot/internal/store/db"
	"campus-notes-bot/internal/telegram"
	"campus-notes-bot/internal/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	client *telegram.Client
	router *bot.Router
	web    *web.Server
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	client, err := telegram.NewClient(c.BotToken, logger)
	if err != nil {
		return nil, fmt.Errorf("telegram init error: %w", err)
	}

	var archiver archive.Archiver
	switch c.ArchiveBackend {
	case config.ArchiveBackendChannel:
		archiver = archive.NewChannelArchiver(client, c.ArchiveChatID)
	default:
		archiver = archive.NewS3Archiver(client, c)
	}

	pipeline := bot.NewPipeline(rm.Submissions(), rm.Catalog(), rm.Profiles(), rm.Broadcasts(), archiver, logger)
	match := bot.NewMatchmaker(rm.Chats())
	router := bot.NewRouter(c, client, rm.Profiles(), rm.Catalog(), rm.Chats(), pipeline, match, archiver, logger)

	ws := web.NewServer(c.HTTPAddr, []byte(c.SecretKey), rm.Profiles(), logger)

	return &App{config: c, logger: logger, client: client, router: router, web: ws}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.client.Run(ctx, app.router.Handle)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.web.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}

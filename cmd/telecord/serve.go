package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/icommits/telecord/internal/backend"
	"github.com/icommits/telecord/internal/config"
	"github.com/icommits/telecord/internal/handlers"
	"github.com/icommits/telecord/internal/logger"
	"github.com/icommits/telecord/internal/relay"
	"github.com/icommits/telecord/internal/server"
	"github.com/icommits/telecord/internal/telegram"
	"github.com/icommits/telecord/internal/ticket"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideTelegramClient,
			provideBackendClient,
			provideTicketService,
			provideProcessor,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(providePushHandler),
			provideServer,
		),
		fx.Invoke(
			startListener,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideTelegramClient(log *slog.Logger, cfg config.Config) (*telegram.Client, error) {
	return telegram.New(log, cfg.Telegram.BotToken, cfg.Telegram.FileBaseURL)
}

func provideBackendClient(log *slog.Logger, cfg config.Config) *backend.Client {
	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	return backend.New(log, cfg.Backend.BaseURL, timeout)
}

func provideTicketService(log *slog.Logger, client *backend.Client) *ticket.Service {
	return ticket.NewService(log, client)
}

func provideProcessor(log *slog.Logger, tg *telegram.Client, client *backend.Client, tickets *ticket.Service) *relay.Processor {
	return relay.NewProcessor(log, tg, tg, client, tickets, tg.BotName())
}

func providePushHandler(log *slog.Logger, tg *telegram.Client) *handlers.PushHandler {
	return handlers.NewPushHandler(log, tg)
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Handlers)
}

func startListener(lc fx.Lifecycle, log *slog.Logger, tg *telegram.Client, processor *relay.Processor) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				tg.Updates(ctx, processor.HandleMessage)
			}()
			log.Info("telegram bridge running")
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

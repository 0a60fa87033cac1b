package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/hikariosu/hikari/internal/bancho"
	"github.com/hikariosu/hikari/internal/beatmap"
	"github.com/hikariosu/hikari/internal/commands"
	"github.com/hikariosu/hikari/internal/config"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/httpapi"
	"github.com/hikariosu/hikari/internal/leaderboard"
	"github.com/hikariosu/hikari/internal/metrics"
	"github.com/hikariosu/hikari/internal/pubsub"
	"github.com/hikariosu/hikari/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("hikari starting", "domain", cfg.ServerDomain, "port", cfg.ServerPort)

	st, err := store.Connect(ctx, cfg.MongoDSN, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer st.Close(context.Background())
	slog.Info("store connected")

	redisOpts, err := redis.ParseURL(cfg.RedisDSN)
	if err != nil {
		return fmt.Errorf("parsing redis dsn: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()
	slog.Info("redis connected")

	resolver, err := geoloc.NewResolver(cfg.GeolocDBPath)
	if err != nil {
		// Playable without the mmdb file, sessions just carry no flag.
		slog.Warn("geolocation database unavailable", "path", cfg.GeolocDBPath, "err", err)
		resolver = geoloc.NewEmptyResolver()
	}
	defer resolver.Close()

	bus := pubsub.New(rdb)

	srv := bancho.NewServer(cfg, st, leaderboard.New(rdb), bus, resolver)
	if err := srv.Seed(ctx); err != nil {
		return fmt.Errorf("seeding server state: %w", err)
	}
	srv.SetCommands(commands.New(srv, st, beatmap.NewFetcher(st, cfg.OsuAPIKey), bus))
	srv.RegisterPubsubs(bus)

	metrics.RegisterSessionGauges(
		func() float64 { return float64(srv.Online()) },
		func() float64 { return float64(srv.ActiveMatches()) },
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("request",
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	// The client treats anything but a clean 200 as a hard failure and
	// shows a reconnect dialog, so unhandled errors turn into an empty
	// 200 and a log line.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		slog.Error("unhandled request error", "uri", c.Request().RequestURI, "err", err)
		_ = c.NoContent(http.StatusOK)
	}

	srv.Routes(e)
	httpapi.New(srv, cfg.APISecret).Routes(e)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting http server", "port", cfg.ServerPort)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		slog.Info("starting pubsub listener")
		if err := bus.Listen(gctx); err != nil {
			return fmt.Errorf("pubsub listener: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting session janitor")
		return srv.RunJanitor(gctx)
	})

	return g.Wait()
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/jokes"
	fiberadapter "github.com/lborres/jokes/adapters/fiber"
	pgxadapter "github.com/lborres/jokes/adapters/pgx"
	"github.com/lborres/jokes/config"
	"github.com/lborres/jokes/pkg/crypto"
)

const shutdownTimeout = 10 * time.Second

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

func main() {
	if err := run(); err != nil {
		slog.Error("jokes exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.LogLevel}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return err
	}
	poolConfig.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := pgxadapter.Migrate(ctx, pool); err != nil {
		return err
	}

	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(logger.New(logger.Config{
		Format:     logFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	site := jokes.Config{
		Secrets:  cfg.Session.Secrets,
		Database: pgxadapter.New(pool),
		HTTP:     fiberadapter.New(app),
		SessionConfig: &jokes.SessionConfig{
			CookieName: jokes.DefaultCookieName,
			MaxAge:     jokes.DefaultMaxAge,
			Secure:     cfg.Session.Secure,
			LoginPath:  jokes.DefaultLoginPath,
		},
		PasswordHasher: passwordHasher(cfg.Password),
		Logger:         log,
	}
	if cfg.Cache.TTL > 0 {
		site.UserCache = jokes.NewUserCache(jokes.CacheConfig{TTL: cfg.Cache.TTL})
	}

	if _, err := jokes.New(site); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":"+cfg.Server.Port, fiber.ListenConfig{DisableStartupMessage: cfg.IsProduction()})
	}()
	log.Info("jokes listening", slog.String("port", cfg.Server.Port), slog.String("env", cfg.Env))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func passwordHasher(cfg config.PasswordConfig) jokes.PasswordHandler {
	if cfg.Hasher == config.HasherArgon2 {
		return crypto.NewArgon2()
	}
	return &crypto.Bcrypt{Cost: cfg.BcryptCost}
}

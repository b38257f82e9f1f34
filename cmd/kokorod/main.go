// Command kokorod runs the kokoro emotion orb service.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/kokoro-ai/kokoro/internal/classify"
	"github.com/kokoro-ai/kokoro/internal/combine"
	"github.com/kokoro-ai/kokoro/internal/config"
	"github.com/kokoro-ai/kokoro/internal/lexicon"
	"github.com/kokoro-ai/kokoro/internal/mcp"
	"github.com/kokoro-ai/kokoro/internal/ratelimit"
	"github.com/kokoro-ai/kokoro/internal/server"
	"github.com/kokoro-ai/kokoro/internal/session"
	"github.com/kokoro-ai/kokoro/internal/storage"
	"github.com/kokoro-ai/kokoro/internal/telemetry"
)

const version = "0.1.0"

func main() {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("kokoro starting", "version", version)

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, true)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	db, err := storage.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	lex, err := lexicon.Load()
	if err != nil {
		return err
	}
	var watcher *lexicon.Watcher
	if cfg.LexiconPath != "" {
		fromFile, err := lexicon.LoadFile(cfg.LexiconPath)
		if err != nil {
			return err
		}
		lex.Replace(fromFile)
		watcher, err = lexicon.NewWatcher(cfg.LexiconPath, lex, logger)
		if err != nil {
			return err
		}
		logger.Info("lexicon loaded from file", "path", cfg.LexiconPath)
	}

	provider, err := classify.SelectProvider(cfg.ClassifyProvider, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ClassifyEndpoint)
	if err != nil {
		return err
	}
	if provider == nil {
		logger.Info("ai classification disabled, lexicon fallback only")
	}
	classifier := classify.New(provider, lex, cfg.ClassifyTimeout, logger)

	resolver, err := combine.NewResolver()
	if err != nil {
		return err
	}

	svc, err := session.New(ctx, classifier, resolver, db, logger)
	if err != nil {
		return err
	}

	mcpSrv := mcp.New(svc, logger)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.RateLimitRPS > 0 {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}
	defer func() { _ = limiter.Close() }()

	srv := server.New(server.ServerConfig{
		Service:             svc,
		Logger:              logger,
		MCPServer:           mcpSrv.MCPServer(),
		Limiter:             limiter,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("kokoro shutting down")
	return err
}

func logLevel(s string) slog.Level {
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

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/audit"
	briefrepo "github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/brief"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/provider/openai"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/telegram"
	"github.com/heartmarshall/exegesis-backend/internal/auth"
	"github.com/heartmarshall/exegesis-backend/internal/config"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
	"github.com/heartmarshall/exegesis-backend/internal/service/account"
	"github.com/heartmarshall/exegesis-backend/internal/service/bot"
	"github.com/heartmarshall/exegesis-backend/internal/service/brief"
	"github.com/heartmarshall/exegesis-backend/internal/transport/middleware"
	"github.com/heartmarshall/exegesis-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "server")

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("generator", cfg.Generator.Provider),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	handler, cleanup, err := newHandler(cfg, pool, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

type briefGenerator interface {
	Generate(ctx context.Context, transcript string) (*generation.Result, error)
}

// newHandler wires adapters, services and transport. The returned cleanup
// releases background resources.
func newHandler(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, func(), error) {
	accounts := user.New(pool)
	briefs := briefrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	tg, err := telegram.NewClient(cfg.Telegram, logger)
	if err != nil {
		return nil, nil, err
	}

	oa := openai.NewClient(cfg.OpenAI)
	transcriber := openai.NewTranscriber(oa, cfg.OpenAI.TranscriptionModel, logger)

	var gen briefGenerator
	switch strings.ToLower(cfg.Generator.Provider) {
	case config.ProviderAnthropic:
		gen = anthropic.NewGenerator(cfg.Anthropic, logger)
	case config.ProviderOpenAI:
		gen = openai.NewGenerator(oa, cfg.OpenAI.ChatModel, logger)
	default:
		return nil, nil, fmt.Errorf("unknown generator provider %q", cfg.Generator.Provider)
	}

	botSvc := bot.NewService(logger, tg, tg, transcriber, gen, accounts, briefs, txm, bot.Options{
		MinTranscriptLength: cfg.Bot.MinTranscriptLength,
		StageTimeout:        cfg.Bot.StageTimeout,
		MessengerTimeout:    cfg.Telegram.Timeout,
		PersistTimeout:      cfg.Bot.PersistTimeout,
		BriefURL:            func(id uuid.UUID) string { return cfg.App.PublicBriefURL(id.String()) },
	})
	briefSvc := brief.NewService(logger, briefs)
	accountSvc := account.NewService(logger, accounts, briefs, audit.New(pool), txm)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)

	handler := rest.NewRouter(rest.RouterDeps{
		Health:  rest.NewHealthHandler(pool, Version),
		Webhook: rest.NewWebhookHandler(botSvc, cfg.Telegram.WebhookSecret, logger),
		Briefs:  rest.NewBriefHandler(briefSvc, logger),
		Account: rest.NewAccountHandler(accountSvc, logger),
		Global: []middleware.Middleware{
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.Recovery(logger),
			middleware.CORS(cfg.CORS),
		},
		API: []middleware.Middleware{
			limiter.Limit(cfg.RateLimit.APIPerMinute),
			middleware.Auth(jwtManager),
		},
	})

	return handler, limiter.Stop, nil
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/heartmarshall/exegesis-backend/internal/config"
)

// NewPool creates a PostgreSQL connection pool configured from DatabaseConfig.
// Queries are traced to logger at cfg.QueryLogLevel; the pool is pinged
// before it is returned.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	if cfg.QueryLogLevel != "" {
		level, err := tracelog.LogLevelFromString(cfg.QueryLogLevel)
		if err != nil {
			return nil, fmt.Errorf("database query log level: %w", err)
		}
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger.With("adapter", "postgres")),
			LogLevel: level,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// queryLogger forwards pgx trace events to slog. Query arguments are dropped;
// they carry transcripts and chat ids.
func queryLogger(logger *slog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		attrs := make([]slog.Attr, 0, len(data))
		for k, v := range data {
			if k == "args" {
				continue
			}
			attrs = append(attrs, slog.Any(k, v))
		}
		logger.LogAttrs(ctx, slogLevel(level), msg, attrs...)
	})
}

func slogLevel(l tracelog.LogLevel) slog.Level {
	switch l {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return slog.LevelDebug
	case tracelog.LogLevelInfo:
		return slog.LevelInfo
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres/audit"
	mediarepo "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres/media"
	userrepo "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres/user"
	wordrepo "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/dicionario-backend/internal/adapter/provider/dicio"
	"github.com/heartmarshall/dicionario-backend/internal/adapter/provider/tts"
	"github.com/heartmarshall/dicionario-backend/internal/auth"
	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/metrics"
	authsvc "github.com/heartmarshall/dicionario-backend/internal/service/auth"
	"github.com/heartmarshall/dicionario-backend/internal/service/dictionary"
	"github.com/heartmarshall/dicionario-backend/internal/service/game"
	"github.com/heartmarshall/dicionario-backend/internal/service/media"
	"github.com/heartmarshall/dicionario-backend/internal/service/pronounce"
	"github.com/heartmarshall/dicionario-backend/internal/service/resolver"
)

// Container holds the wired components of one process.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Resolver   *resolver.Service
	Dictionary *dictionary.Service
	Media      *media.Service
	Games      *game.Service
	Pronounce  *pronounce.Service
	Auth       *authsvc.Service
}

// Build connects to the database and wires every service. Close releases
// the pool.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c, err := newContainer(cfg, logger, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

// newContainer wires every service over an open pool.
func newContainer(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*Container, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	extractor, err := dicio.NewExtractor(dicio.DefaultPatterns())
	if err != nil {
		return nil, fmt.Errorf("compile extractor patterns: %w", err)
	}
	source := dicio.NewClient(cfg.Source, extractor, m, logger)

	txm := postgres.NewTxManager(pool)
	words := wordrepo.New(pool, txm)
	users := userrepo.New(pool)
	mediaStore := mediarepo.New(pool)
	history := auditrepo.New(pool)

	synth := tts.NewClient(cfg.TTS, logger)
	knownVoice := func(id string) bool {
		_, ok := tts.LookupVoice(id)
		return ok
	}
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Registry: registry,
		Metrics:  m,

		Resolver:   resolver.NewService(logger, words, txm, source, m, cfg.Dictionary),
		Dictionary: dictionary.NewService(logger, words, history, txm, cfg.Dictionary),
		Media:      media.NewService(logger, mediaStore, words),
		Games:      game.NewService(logger, words),
		Pronounce:  pronounce.NewService(logger, words, synth, knownVoice, cfg.TTS.DefaultVoice),
		Auth:       authsvc.NewService(logger, users, tokens, cfg.Auth),
	}, nil
}

// Close releases the database pool.
func (c *Container) Close() {
	c.Pool.Close()
}

// Ping checks database connectivity.
func (c *Container) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.Pool.Ping(ctx)
}

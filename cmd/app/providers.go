package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/math-agent/internal/domain/solver"
	"github.com/yanqian/math-agent/internal/infra/config"
	"github.com/yanqian/math-agent/internal/infra/kbrepo"
	"github.com/yanqian/math-agent/internal/infra/learnstore"
	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
	"github.com/yanqian/math-agent/internal/infra/websearch/tavily"
)

func provideSolverConfig(cfg *config.Config) solver.Config {
	return solver.Config{
		KBMatchThreshold:   cfg.Solver.KBMatchThreshold,
		MathKeywords:       cfg.Solver.MathKeywords,
		BannedTopics:       cfg.Solver.BannedTopics,
		Enhanced:           cfg.Solver.Enhanced,
		TrainingBufferSize: cfg.Solver.TrainingBufferSize,
		Model:              cfg.LLM.Model,
		EmbeddingModel:     cfg.LLM.EmbeddingModel,
		Temperature:        cfg.LLM.Temperature,
		MaxTokens:          cfg.LLM.MaxTokens,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideTokenCounter(cfg *config.Config) *chatgpt.TokenCounter {
	return chatgpt.NewTokenCounter(cfg.LLM.Model)
}

func provideWebSearcher(cfg *config.Config, logger *slog.Logger) solver.WebSearcher {
	if strings.TrimSpace(cfg.WebSearch.APIKey) == "" {
		logger.Warn("web search api key not set, fallback searches will fail closed")
	}
	return tavily.NewClient(cfg.WebSearch.APIKey, cfg.WebSearch.BaseURL, cfg.WebSearch.MaxResults, cfg.WebSearch.Timeout)
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using in-memory storage")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using in-memory storage", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using in-memory storage", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using in-memory storage", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres pool enabled")
	return pool
}

func provideKnowledgeBase(pool *pgxpool.Pool, logger *slog.Logger) solver.KnowledgeBase {
	if pool == nil {
		logger.Info("knowledge base using memory repository")
		return kbrepo.NewMemoryRepository()
	}
	return kbrepo.NewPostgresRepository(pool)
}

func provideLearningStore(pool *pgxpool.Pool, logger *slog.Logger) solver.LearningStore {
	if pool == nil {
		logger.Info("learning store using memory store")
		return learnstore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := learnstore.NewPostgresStore(ctx, pool)
	if err != nil {
		logger.Error("failed to prepare learning store schema, using memory store", "error", err)
		return learnstore.NewMemoryStore()
	}
	return store
}

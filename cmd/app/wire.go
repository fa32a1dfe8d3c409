//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/math-agent/internal/bootstrap"
	"github.com/yanqian/math-agent/internal/domain/solver"
	"github.com/yanqian/math-agent/internal/infra/config"
	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
	httpiface "github.com/yanqian/math-agent/internal/interface/http"
	"github.com/yanqian/math-agent/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSolverConfig,
		provideChatGPTClient,
		provideTokenCounter,
		provideWebSearcher,
		providePostgresPool,
		provideKnowledgeBase,
		provideLearningStore,
		solver.NewService,
		wire.Bind(new(solver.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(solver.TokenCounter), new(*chatgpt.TokenCounter)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

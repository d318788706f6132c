//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/markdown"
	"storyvault-api/internal/interfaces/http/handler"
	"storyvault-api/internal/interfaces/http/router"
)

// InitializeApp 组装完整应用
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideStorage,
		ProvideMarkdownClient,
		ProvideRedisClient,
		ProvideCache,
		ProvideRateLimiter,

		markdown.NewBookRepository,
		markdown.NewCharacterRepository,
		markdown.NewStoryUnitRepository,
		markdown.NewEventRepository,
		markdown.NewChapterRepository,
		markdown.NewMarkRepository,
		markdown.NewGraphRepository,
		wire.Bind(new(repository.BookRepository), new(*markdown.BookRepository)),
		wire.Bind(new(repository.CharacterRepository), new(*markdown.CharacterRepository)),
		wire.Bind(new(repository.StoryUnitRepository), new(*markdown.StoryUnitRepository)),
		wire.Bind(new(repository.EventRepository), new(*markdown.EventRepository)),
		wire.Bind(new(repository.ChapterRepository), new(*markdown.ChapterRepository)),
		wire.Bind(new(repository.MarkRepository), new(*markdown.MarkRepository)),
		wire.Bind(new(repository.GraphRepository), new(*markdown.GraphRepository)),

		ProvideMarkingEngine,
		ProvideTransferService,
		ProvideCanvasBuilder,

		handler.NewHealthHandler,
		handler.NewBookHandler,
		handler.NewCharacterHandler,
		handler.NewStoryUnitHandler,
		handler.NewEventHandler,
		handler.NewChapterHandler,
		handler.NewMarkHandler,
		handler.NewTransferHandler,
		handler.NewGraphHandler,

		wire.Struct(new(router.Handlers), "*"),
		router.New,

		wire.Struct(new(App), "Config", "Router", "Redis"),
	)
	return nil, nil
}

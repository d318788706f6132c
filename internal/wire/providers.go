// Package wire 提供依赖注入配置
package wire

import (
	"storyvault-api/internal/application/canvas"
	"storyvault-api/internal/application/marking"
	"storyvault-api/internal/application/transfer"
	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/markdown"
	"storyvault-api/internal/infrastructure/persistence/redis"
	"storyvault-api/internal/infrastructure/storage"
	"storyvault-api/internal/interfaces/http/middleware"
	"storyvault-api/internal/interfaces/http/router"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Router *router.Router
	Redis  *redis.Client
}

// Close 释放外部连接
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

// ProvideStorage 创建书库根目录上的存储适配器
func ProvideStorage(cfg *config.Config) repository.Storage {
	return storage.NewOS(cfg.Library.Root)
}

// ProvideMarkdownClient 创建文档存储客户端
func ProvideMarkdownClient(st repository.Storage, cfg *config.Config) *markdown.Client {
	return markdown.NewClient(st, &cfg.Library)
}

// ProvideRedisClient 创建 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	return redis.NewClient(&cfg.Cache.Redis)
}

// ProvideCache 创建缓存服务，Redis 未启用时返回 nil
func ProvideCache(client *redis.Client) *redis.Cache {
	if client == nil {
		return nil
	}
	return redis.NewCache(client)
}

// ProvideRateLimiter 创建限流器，Redis 未启用时返回 nil 接口
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideMarkingEngine 创建精确标记引擎
func ProvideMarkingEngine(
	books repository.BookRepository,
	marks repository.MarkRepository,
	chapters repository.ChapterRepository,
	units repository.StoryUnitRepository,
) *marking.Engine {
	return marking.NewEngine(books, marks, chapters, units)
}

// ProvideTransferService 创建导入导出服务
func ProvideTransferService(
	books repository.BookRepository,
	characters repository.CharacterRepository,
	units repository.StoryUnitRepository,
	events repository.EventRepository,
	chapters repository.ChapterRepository,
) *transfer.Service {
	return transfer.NewService(books, characters, units, events, chapters)
}

// ProvideCanvasBuilder 创建图文档构建器
func ProvideCanvasBuilder(
	books repository.BookRepository,
	characters repository.CharacterRepository,
	units repository.StoryUnitRepository,
	events repository.EventRepository,
	graphs repository.GraphRepository,
) *canvas.Builder {
	return canvas.NewBuilder(books, characters, units, events, graphs)
}

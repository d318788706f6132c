// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/redis"
	"storyvault-api/internal/interfaces/http/dto"
)

// ChapterHandler 章节处理器
// 章节拼接是重复读整目录的热路径，启用 Redis 时走读穿缓存
type ChapterHandler struct {
	chapters repository.ChapterRepository
	cache    *redis.Cache
	ttl      time.Duration
}

// NewChapterHandler 创建章节处理器，cache 可为 nil
func NewChapterHandler(chapters repository.ChapterRepository, cache *redis.Cache, cfg *config.Config) *ChapterHandler {
	ttl := 5 * time.Minute
	if cfg != nil && cfg.Cache.Redis.ContentTTL > 0 {
		ttl = cfg.Cache.Redis.ContentTTL
	}
	return &ChapterHandler{
		chapters: chapters,
		cache:    cache,
		ttl:      ttl,
	}
}

// List 列出章节文件
// GET /v1/books/:bid/chapters
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.chapters.Scan(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, chapters)
}

// GetContent 拼接章节区间正文
// GET /v1/books/:bid/chapters/content?start=N&end=M
func (h *ChapterHandler) GetContent(c *gin.Context) {
	bookPath := dto.BindBookID(c)
	start := parseIntQuery(c, "start", 1)
	end := parseIntQuery(c, "end", start)

	if h.cache != nil {
		key := redis.BuildChapterKey(bookPath, start, end)
		raw, err := h.cache.GetOrLoadSafe(c.Request.Context(), key, h.ttl, func() (interface{}, error) {
			content, err := h.chapters.GetContent(c.Request.Context(), bookPath, start, end)
			if err != nil {
				return nil, err
			}
			return dto.ChapterContentResponse{Start: start, End: end, Content: content}, nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		var resp dto.ChapterContentResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			dto.Success(c, resp)
			return
		}
		// 缓存内容异常时回退直读
	}

	content, err := h.chapters.GetContent(c.Request.Context(), bookPath, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ChapterContentResponse{Start: start, End: end, Content: content})
}

func parseIntQuery(c *gin.Context, name string, defaultVal int) int {
	v := c.Query(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	storage repository.Storage
	redis   *redis.Client
}

// NewHealthHandler 创建健康检查处理器，redis 可为 nil
func NewHealthHandler(storage repository.Storage, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		redis:   redisClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready 就绪检查接口
// 存储适配器必需，Redis 可选且不影响就绪态
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"storage": {Status: "unknown"},
		"redis":   {Status: "disabled"},
	}

	ready := true

	if h == nil || h.storage == nil {
		checks["storage"].Status = "missing"
		checks["storage"].Error = "storage adapter not configured"
		ready = false
	} else {
		start := time.Now()
		_, err := h.storage.Exists(ctx, ".")
		checks["storage"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["storage"].Status = "error"
			checks["storage"].Error = err.Error()
			ready = false
		} else {
			checks["storage"].Status = "ok"
		}
	}

	if h != nil && h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

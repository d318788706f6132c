// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"storyvault-api/internal/application/canvas"
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// GraphHandler 可视化图处理器
type GraphHandler struct {
	builder *canvas.Builder
}

// NewGraphHandler 创建可视化图处理器
func NewGraphHandler(builder *canvas.Builder) *GraphHandler {
	return &GraphHandler{builder: builder}
}

// Get 读取已生成的图文档
// GET /v1/books/:bid/graphs/:kind
func (h *GraphHandler) Get(c *gin.Context) {
	kind, ok := parseGraphKind(c)
	if !ok {
		return
	}

	doc, err := h.builder.Read(c.Request.Context(), dto.BindBookID(c), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if doc == nil {
		respondError(c, apperrors.ErrNotFound.WithDetail(fmt.Sprintf("graph %q not generated", kind)))
		return
	}
	dto.Success(c, doc)
}

// Build 从当前集合重新生成图文档
// POST /v1/books/:bid/graphs/:kind
func (h *GraphHandler) Build(c *gin.Context) {
	kind, ok := parseGraphKind(c)
	if !ok {
		return
	}

	doc, err := h.builder.Build(c.Request.Context(), dto.BindBookID(c), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, doc)
}

func parseGraphKind(c *gin.Context) (entity.GraphKind, bool) {
	kind := entity.GraphKind(dto.BindGraphKind(c))
	switch kind {
	case entity.GraphKindRelationship, entity.GraphKindStoryFlow, entity.GraphKindTimeline:
		return kind, true
	}
	dto.BadRequest(c, fmt.Sprintf("unknown graph kind %q", dto.BindGraphKind(c)))
	return "", false
}

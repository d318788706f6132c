// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/application/marking"
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/interfaces/http/dto"
)

// MarkHandler 精确标记处理器
type MarkHandler struct {
	engine *marking.Engine
}

// NewMarkHandler 创建标记处理器
func NewMarkHandler(engine *marking.Engine) *MarkHandler {
	return &MarkHandler{engine: engine}
}

// List 列出全部标记
// GET /v1/books/:bid/marks
func (h *MarkHandler) List(c *gin.Context) {
	file, err := h.engine.ListMarks(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, file)
}

// CreateStart 创建起始标记
// POST /v1/books/:bid/marks
func (h *MarkHandler) CreateStart(c *gin.Context) {
	var req dto.CreateStartMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	mark, err := h.engine.CreateStartMark(c.Request.Context(), dto.BindBookID(c), req.Position, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, mark)
}

// CreateEnd 配对结束标记
// POST /v1/books/:bid/marks/:mid/end
func (h *MarkHandler) CreateEnd(c *gin.Context) {
	var req dto.CreateEndMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	mark, err := h.engine.CreateEndMark(c.Request.Context(), dto.BindBookID(c), dto.BindMarkID(c), req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, mark)
}

// ExtractText 解析已配对标记的文本
// GET /v1/books/:bid/marks/:mid/text
func (h *MarkHandler) ExtractText(c *gin.Context) {
	markID := dto.BindMarkID(c)
	text, err := h.engine.ExtractMarkedText(c.Request.Context(), dto.BindBookID(c), markID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.MarkedTextResponse{MarkID: markID, Text: text})
}

// Convert 标记晋升为故事单元
// POST /v1/books/:bid/marks/:mid/convert
func (h *MarkHandler) Convert(c *gin.Context) {
	var req dto.ConvertMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	unit, err := h.engine.ConvertToStoryUnit(c.Request.Context(), dto.BindBookID(c), dto.BindMarkID(c), req.Name,
		&marking.ConvertOptions{
			StoryLine:         entity.StoryLine(req.StoryLine),
			RelatedCharacters: req.RelatedCharacters,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, unit)
}

// Delete 删除标记
// DELETE /v1/books/:bid/marks/:mid
func (h *MarkHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteMark(c.Request.Context(), dto.BindBookID(c), dto.BindMarkID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

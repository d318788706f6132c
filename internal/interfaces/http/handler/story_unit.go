// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// StoryUnitHandler 故事单元处理器
type StoryUnitHandler struct {
	units repository.StoryUnitRepository
}

// NewStoryUnitHandler 创建故事单元处理器
func NewStoryUnitHandler(units repository.StoryUnitRepository) *StoryUnitHandler {
	return &StoryUnitHandler{units: units}
}

// List 分页列出故事单元
// GET /v1/books/:bid/story-units
func (h *StoryUnitHandler) List(c *gin.Context) {
	units, err := h.units.List(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	page := dto.BindPage(c)
	result := repository.Page(units, repository.NewPagination(page.Page, page.PageSize))
	dto.SuccessWithPage(c, result.Items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单个故事单元
// GET /v1/books/:bid/story-units/:uid
func (h *StoryUnitHandler) Get(c *gin.Context) {
	unit, err := h.units.GetByID(c.Request.Context(), dto.BindBookID(c), dto.BindUnitID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if unit == nil {
		respondError(c, apperrors.ErrStoryUnitNotFound.WithDetail(dto.BindUnitID(c)))
		return
	}
	dto.Success(c, unit)
}

// GetFullText 获取故事单元完整正文，溢出时从溢出文件读取
// GET /v1/books/:bid/story-units/:uid/text
func (h *StoryUnitHandler) GetFullText(c *gin.Context) {
	bookPath := dto.BindBookID(c)
	unit, err := h.units.GetByID(c.Request.Context(), bookPath, dto.BindUnitID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if unit == nil {
		respondError(c, apperrors.ErrStoryUnitNotFound.WithDetail(dto.BindUnitID(c)))
		return
	}

	text, err := h.units.ReadFullText(c.Request.Context(), bookPath, unit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.StoryUnitTextResponse{UnitID: unit.UnitID, TextContent: text})
}

// Create 创建故事单元
// POST /v1/books/:bid/story-units
func (h *StoryUnitHandler) Create(c *gin.Context) {
	var req dto.CreateStoryUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	unit := req.ToEntity()
	if err := h.units.Add(c.Request.Context(), dto.BindBookID(c), unit); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, unit)
}

// Update 部分更新故事单元
// PATCH /v1/books/:bid/story-units/:uid
func (h *StoryUnitHandler) Update(c *gin.Context) {
	var req dto.UpdateStoryUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	unit, err := h.units.Update(c.Request.Context(), dto.BindBookID(c), dto.BindUnitID(c), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, unit)
}

// Delete 删除故事单元
// DELETE /v1/books/:bid/story-units/:uid
func (h *StoryUnitHandler) Delete(c *gin.Context) {
	if err := h.units.Delete(c.Request.Context(), dto.BindBookID(c), dto.BindUnitID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

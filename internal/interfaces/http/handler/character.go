// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// CharacterHandler 角色处理器
type CharacterHandler struct {
	characters repository.CharacterRepository
}

// NewCharacterHandler 创建角色处理器
func NewCharacterHandler(characters repository.CharacterRepository) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

// List 分页列出角色
// GET /v1/books/:bid/characters
func (h *CharacterHandler) List(c *gin.Context) {
	characters, err := h.characters.List(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	page := dto.BindPage(c)
	result := repository.Page(characters, repository.NewPagination(page.Page, page.PageSize))
	dto.SuccessWithPage(c, result.Items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单个角色
// GET /v1/books/:bid/characters/:cid
func (h *CharacterHandler) Get(c *gin.Context) {
	character, err := h.characters.GetByID(c.Request.Context(), dto.BindBookID(c), dto.BindCharacterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if character == nil {
		respondError(c, apperrors.ErrCharacterNotFound.WithDetail(dto.BindCharacterID(c)))
		return
	}
	dto.Success(c, character)
}

// Create 创建角色
// POST /v1/books/:bid/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	character := req.ToEntity()
	if err := h.characters.Add(c.Request.Context(), dto.BindBookID(c), character); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, character)
}

// Update 部分更新角色
// PATCH /v1/books/:bid/characters/:cid
func (h *CharacterHandler) Update(c *gin.Context) {
	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	character, err := h.characters.Update(c.Request.Context(), dto.BindBookID(c), dto.BindCharacterID(c), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, character)
}

// Delete 删除角色
// DELETE /v1/books/:bid/characters/:cid
func (h *CharacterHandler) Delete(c *gin.Context) {
	if err := h.characters.Delete(c.Request.Context(), dto.BindBookID(c), dto.BindCharacterID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

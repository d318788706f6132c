// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// BookHandler 书籍处理器
type BookHandler struct {
	books repository.BookRepository
}

// NewBookHandler 创建书籍处理器
func NewBookHandler(books repository.BookRepository) *BookHandler {
	return &BookHandler{books: books}
}

// Initialize 初始化书库
// POST /v1/books/:bid/initialize
func (h *BookHandler) Initialize(c *gin.Context) {
	var req dto.InitializeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	bookID, err := h.books.Initialize(c.Request.Context(), dto.BindBookID(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.InitializeBookResponse{BookID: bookID})
}

// GetMeta 获取书籍元数据
// GET /v1/books/:bid/meta
func (h *BookHandler) GetMeta(c *gin.Context) {
	meta, err := h.books.GetMeta(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if meta == nil {
		respondError(c, apperrors.ErrBookNotFound.WithDetail(dto.BindBookID(c)))
		return
	}
	dto.Success(c, meta)
}

// UpdateMeta 部分更新书籍元数据
// PATCH /v1/books/:bid/meta
func (h *BookHandler) UpdateMeta(c *gin.Context) {
	var req dto.UpdateBookMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	meta, err := h.books.UpdateMeta(c.Request.Context(), dto.BindBookID(c), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, meta)
}

// Status 书库初始化状态
// GET /v1/books/:bid/status
func (h *BookHandler) Status(c *gin.Context) {
	initialized, err := h.books.IsInitialized(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"initialized": initialized})
}

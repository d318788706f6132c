// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// EventHandler 事件处理器
type EventHandler struct {
	events repository.EventRepository
}

// NewEventHandler 创建事件处理器
func NewEventHandler(events repository.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// List 分页列出事件
// GET /v1/books/:bid/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	page := dto.BindPage(c)
	result := repository.Page(events, repository.NewPagination(page.Page, page.PageSize))
	dto.SuccessWithPage(c, result.Items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单个事件
// GET /v1/books/:bid/events/:eid
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.GetByID(c.Request.Context(), dto.BindBookID(c), dto.BindEventID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		respondError(c, apperrors.ErrEventNotFound.WithDetail(dto.BindEventID(c)))
		return
	}
	dto.Success(c, event)
}

// Create 创建事件
// POST /v1/books/:bid/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	event := req.ToEntity()
	if err := h.events.Add(c.Request.Context(), dto.BindBookID(c), event); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, event)
}

// Update 部分更新事件
// PATCH /v1/books/:bid/events/:eid
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.Update(c.Request.Context(), dto.BindBookID(c), dto.BindEventID(c), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, event)
}

// Delete 删除事件
// DELETE /v1/books/:bid/events/:eid
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), dto.BindBookID(c), dto.BindEventID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

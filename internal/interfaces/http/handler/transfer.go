// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyvault-api/internal/application/transfer"
	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
)

// TransferHandler 导入导出处理器
type TransferHandler struct {
	service *transfer.Service
}

// NewTransferHandler 创建导入导出处理器
func NewTransferHandler(service *transfer.Service) *TransferHandler {
	return &TransferHandler{service: service}
}

// ExportJSON 导出全量 JSON 快照
// GET /v1/books/:bid/export/json
func (h *TransferHandler) ExportJSON(c *gin.Context) {
	data, err := h.service.ExportJSON(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="snapshot.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ExportCSV 按集合导出 CSV
// GET /v1/books/:bid/export/csv/:collection
func (h *TransferHandler) ExportCSV(c *gin.Context) {
	collection := c.Param("collection")
	data, err := h.service.ExportCSV(c.Request.Context(), dto.BindBookID(c), collection)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, collection))
	c.Data(http.StatusOK, "text/csv", data)
}

// ImportJSON 从 JSON 数组导入指定集合
// POST /v1/books/:bid/import/json/:collection
func (h *TransferHandler) ImportJSON(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	bookPath := dto.BindBookID(c)
	opts := req.ToOptions()

	var (
		result *transfer.Result
		err    error
	)
	switch collection := c.Param("collection"); collection {
	case "characters":
		result, err = h.service.ImportCharactersJSON(c.Request.Context(), bookPath, req.Records, opts)
	case "story_units":
		result, err = h.service.ImportStoryUnitsJSON(c.Request.Context(), bookPath, req.Records, opts)
	case "events":
		result, err = h.service.ImportEventsJSON(c.Request.Context(), bookPath, req.Records, opts)
	default:
		respondError(c, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown collection %q", collection)))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, result)
}

// ImportCSV 从 CSV 导入指定集合，请求体为原始 CSV
// POST /v1/books/:bid/import/csv/:collection?strategy=skip&auto_create_fields=false
func (h *TransferHandler) ImportCSV(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	bookPath := dto.BindBookID(c)
	opts := transfer.Options{
		Strategy:         transfer.ConflictStrategy(c.Query("strategy")),
		AutoCreateFields: c.Query("auto_create_fields") == "true",
	}

	var result *transfer.Result
	switch collection := c.Param("collection"); collection {
	case "characters":
		result, err = h.service.ImportCharactersCSV(c.Request.Context(), bookPath, payload, opts)
	case "story_units":
		result, err = h.service.ImportStoryUnitsCSV(c.Request.Context(), bookPath, payload, opts)
	case "events":
		result, err = h.service.ImportEventsCSV(c.Request.Context(), bookPath, payload, opts)
	default:
		respondError(c, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown collection %q", collection)))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, result)
}

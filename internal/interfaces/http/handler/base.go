// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"storyvault-api/internal/interfaces/http/dto"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/logger"
)

// respondError 把应用错误翻译为 HTTP 错误响应
// 非 AppError 一律按内部错误处理，细节只进日志不出响应
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path, "method", c.Request.Method)
	}

	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}

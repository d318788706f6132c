// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageRequest 分页请求参数
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize 规范化分页参数
func (r *PageRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// BindPage 从 Gin Context 绑定分页参数
func BindPage(c *gin.Context) PageRequest {
	req := PageRequest{
		Page:     parseIntWithDefault(c.Query("page"), 1),
		PageSize: parseIntWithDefault(c.Query("page_size"), 20),
	}
	req.Normalize()
	return req
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// BindBookID 从 URI 绑定书籍目录名
// 书籍目录名同时就是相对存储根的书路径
func BindBookID(c *gin.Context) string {
	return c.Param("bid")
}

// BindCharacterID 从 URI 绑定角色 ID
func BindCharacterID(c *gin.Context) string {
	return c.Param("cid")
}

// BindUnitID 从 URI 绑定故事单元 ID
func BindUnitID(c *gin.Context) string {
	return c.Param("uid")
}

// BindEventID 从 URI 绑定事件 ID
func BindEventID(c *gin.Context) string {
	return c.Param("eid")
}

// BindMarkID 从 URI 绑定标记 ID
func BindMarkID(c *gin.Context) string {
	return c.Param("mid")
}

// BindGraphKind 从 URI 绑定图类型
func BindGraphKind(c *gin.Context) string {
	return c.Param("kind")
}

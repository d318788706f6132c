// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
// 所有业务路由都挂在 /books/:bid 下，:bid 即书籍目录名
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	books := v1.Group("/books/:bid")
	{
		// 书库生命周期与元数据
		books.POST("/initialize", h.Book.Initialize)
		books.GET("/status", h.Book.Status)
		books.GET("/meta", h.Book.GetMeta)
		books.PATCH("/meta", h.Book.UpdateMeta)

		// 角色
		books.GET("/characters", h.Character.List)
		books.POST("/characters", h.Character.Create)
		books.GET("/characters/:cid", h.Character.Get)
		books.PATCH("/characters/:cid", h.Character.Update)
		books.DELETE("/characters/:cid", h.Character.Delete)

		// 故事单元
		books.GET("/story-units", h.StoryUnit.List)
		books.POST("/story-units", h.StoryUnit.Create)
		books.GET("/story-units/:uid", h.StoryUnit.Get)
		books.GET("/story-units/:uid/text", h.StoryUnit.GetFullText)
		books.PATCH("/story-units/:uid", h.StoryUnit.Update)
		books.DELETE("/story-units/:uid", h.StoryUnit.Delete)

		// 事件
		books.GET("/events", h.Event.List)
		books.POST("/events", h.Event.Create)
		books.GET("/events/:eid", h.Event.Get)
		books.PATCH("/events/:eid", h.Event.Update)
		books.DELETE("/events/:eid", h.Event.Delete)

		// 章节（只读）
		books.GET("/chapters", h.Chapter.List)
		books.GET("/chapters/content", h.Chapter.GetContent)

		// 精确标记
		books.GET("/marks", h.Mark.List)
		books.POST("/marks", h.Mark.CreateStart)
		books.POST("/marks/:mid/end", h.Mark.CreateEnd)
		books.GET("/marks/:mid/text", h.Mark.ExtractText)
		books.POST("/marks/:mid/convert", h.Mark.Convert)
		books.DELETE("/marks/:mid", h.Mark.Delete)

		// 导入导出
		books.GET("/export/json", h.Transfer.ExportJSON)
		books.GET("/export/csv/:collection", h.Transfer.ExportCSV)
		books.POST("/import/json/:collection", h.Transfer.ImportJSON)
		books.POST("/import/csv/:collection", h.Transfer.ImportCSV)

		// 可视化图
		books.GET("/graphs/:kind", h.Graph.Get)
		books.POST("/graphs/:kind", h.Graph.Build)
	}
}

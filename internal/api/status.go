package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Source     string `json:"source"`     // OpenProject 地址
	Configured bool   `json:"configured"` // 数据源是否已配置
	Sessions   int    `json:"sessions"`   // 活跃会话数
	History    bool   `json:"history"`    // 是否记录报表历史
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Source:     h.sourceURL,
		Configured: h.sourceURL != "",
		Sessions:   h.sessions.Count(),
		History:    h.history != nil,
	})
}

// ListProjects 项目列表
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.sessions.Projects(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": projects})
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/session"
)

// CreateSession 创建会话
// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"sessionId": s.ID()})
}

// DeleteSession 删除会话
// DELETE /api/sessions/:sid
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("sid")) {
		h.writeError(c, session.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

type loadProjectRequest struct {
	ProjectID string `json:"projectId"`
}

// LoadProject 清空会话状态并从数据源加载项目
// POST /api/sessions/:sid/project
func (h *Handler) LoadProject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req loadProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}

	ctx := c.Request.Context()
	project, err := h.sessions.FindProject(ctx, req.ProjectID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := s.Reset(ctx, project); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// GetCandidates 候选人列表
// GET /api/sessions/:sid/candidates
func (h *Handler) GetCandidates(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

type assignRequest struct {
	Role string `json:"role"`
}

// Assign 分配角色; the sentinel or an empty role clears the choice.
// PUT /api/sessions/:sid/assignments/:userId
func (h *Handler) Assign(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if err := s.Assign(c.Param("userId"), req.Role); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ClearAssignment 清除角色
// DELETE /api/sessions/:sid/assignments/:userId
func (h *Handler) ClearAssignment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Clear(c.Param("userId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// RoleHoursItem 单个角色的工时 (按角色目录顺序)
type RoleHoursItem struct {
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
}

type roleHoursResponse struct {
	Items []RoleHoursItem `json:"items"`
	Total float64         `json:"total"`
}

func newRoleHoursResponse(v model.RoleHoursVector) roleHoursResponse {
	items := make([]RoleHoursItem, 0, model.RoleCount)
	for i, role := range model.Roles {
		items = append(items, RoleHoursItem{Role: role, Hours: v[i]})
	}
	return roleHoursResponse{Items: items, Total: v.Sum()}
}

// GetRoleHours 角色工时汇总
// GET /api/sessions/:sid/role-hours
func (h *Handler) GetRoleHours(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	v, err := s.RoleHours()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoleHoursResponse(v))
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return s, true
}

package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/session"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/store"
)

// downloadTTL 导出文件可下载的时长
const downloadTTL = 10 * time.Minute

// ReportHistory 报表历史持久化 (*store.Store 实现)
type ReportHistory interface {
	CreateReportLog(ctx context.Context, sessionID string, project model.Project, fileName string, v model.RoleHoursVector) (int64, error)
	ListReportLogs(ctx context.Context, limit int) ([]store.ReportLog, error)
}

// Handler API 处理器
type Handler struct {
	sessions  *session.Manager
	emitter   session.Emitter
	history   ReportHistory
	downloads *exportDownloadStore
	sourceURL string
	log       zerolog.Logger
}

// NewHandler 创建 API 处理器. history may be nil, in which case reports are not recorded.
func NewHandler(sessions *session.Manager, emitter session.Emitter, history ReportHistory, sourceURL string, log zerolog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		emitter:   emitter,
		history:   history,
		downloads: newExportDownloadStore(),
		sourceURL: sourceURL,
		log:       log,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/projects", h.ListProjects)

	// 会话
	router.POST("/sessions", h.CreateSession)
	router.DELETE("/sessions/:sid", h.DeleteSession)
	router.POST("/sessions/:sid/project", h.LoadProject)
	router.GET("/sessions/:sid/candidates", h.GetCandidates)
	router.PUT("/sessions/:sid/assignments/:userId", h.Assign)
	router.DELETE("/sessions/:sid/assignments/:userId", h.ClearAssignment)
	router.GET("/sessions/:sid/role-hours", h.GetRoleHours)

	// 报表
	router.POST("/sessions/:sid/report", h.GenerateReport)
	router.GET("/report/download/:token", h.DownloadReport)
	router.GET("/reports", h.ListReports)
}

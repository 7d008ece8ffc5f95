package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/api"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/session"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/store"
)

// SessionTTL 会话空闲超时
const SessionTTL = 12 * time.Hour

// DBFileName 报表历史数据库文件名
const DBFileName = "calculadora.db"

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	store    *store.Store
	api      *api.Handler
	sessions *session.Manager
	log      zerolog.Logger
	srv      *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, source session.DataSource, log zerolog.Logger) (*Server, error) {
	if cfg.Server.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data directory: %w", err)
	}
	st, err := store.New(filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(source, log, SessionTTL)
	emitter := excel.NewReportEmitter(cfg.Excel.EmitterOptions())

	s := &Server{
		router:   gin.New(),
		store:    st,
		api:      api.NewHandler(sessions, emitter, st, cfg.OpenProject.URL, log),
		sessions: sessions,
		log:      log,
	}
	s.setupRoutes()

	log.Info().Str("data_dir", dataDir).Bool("dev", cfg.Server.DevMode).Msg("server initialized")
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(recoveryMiddleware(s.log))
	s.router.Use(loggingMiddleware(s.log))
	s.router.Use(corsMiddleware())

	s.router.GET("/health", s.health)

	group := s.router.Group("/api")
	{
		s.api.RegisterRoutes(group)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "calculadora",
		"sessions":  s.sessions.Count(),
	})
}

// Handler 返回路由 (主要用于测试)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器; returns nil after Shutdown.
func (s *Server) Run(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收请求，等待处理中的请求并关闭存储
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

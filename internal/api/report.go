package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/store"
)

type reportResponse struct {
	FileName    string            `json:"fileName"`
	DownloadURL string            `json:"downloadUrl"`
	ReportID    int64             `json:"reportId,omitempty"`
	RoleHours   roleHoursResponse `json:"roleHours"`
}

// GenerateReport 生成报表并保留一次性下载
// POST /api/sessions/:sid/report
func (h *Handler) GenerateReport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	res, err := s.GenerateReport(h.emitter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var reportID int64
	if h.history != nil {
		// 历史记录失败不影响下载
		reportID, err = h.history.CreateReportLog(c.Request.Context(), s.ID(), res.Project, res.Report.FileName, res.RoleHours)
		if err != nil {
			h.log.Warn().Err(err).Str("file", res.Report.FileName).Msg("failed to record report")
		}
	}

	token := h.downloads.put(res.Report.FileName, res.Report.Data, downloadTTL)
	c.JSON(http.StatusOK, reportResponse{
		FileName:    res.Report.FileName,
		DownloadURL: "/api/report/download/" + token,
		ReportID:    reportID,
		RoleHours:   newRoleHoursResponse(res.RoleHours),
	})
}

// DownloadReport 下载报表 (一次性)
// GET /api/report/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.fileName))
	c.Data(http.StatusOK, excel.ContentType, item.data)
}

// ListReports 报表历史
// GET /api/reports?limit=N
func (h *Handler) ListReports(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.ReportLog{}})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	items, err := h.history.ListReportLogs(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if items == nil {
		items = []store.ReportLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// buildContentDisposition ASCII 回退文件名 + RFC 5987 UTF-8 文件名
func buildContentDisposition(fileName string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, fileName)
	return "attachment; filename=\"" + fallback + "\"; filename*=UTF-8''" + encodeRFC5987(fileName)
}

func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isAttrChar(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0f])
	}
	return b.String()
}

func isAttrChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", ch) >= 0
}

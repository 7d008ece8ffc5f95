package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/roles"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/session"
)

// writeError 将领域错误映射为 HTTP 状态码
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		incomplete *model.IncompleteError
		sourceErr  *model.SourceError
		reportErr  *model.ReportError
	)
	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"incomplete": true,
			"missing":    incomplete.Missing,
		})
		return
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrProjectNotFound),
		errors.Is(err, session.ErrUnknownUser):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, session.ErrNoProject), errors.Is(err, session.ErrNoCandidates):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, roles.ErrRoleNotSelectable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.As(err, &sourceErr):
		h.log.Warn().Err(err).Str("path", c.FullPath()).Msg("data source request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	case errors.As(err, &reportErr):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

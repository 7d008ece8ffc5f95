package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

// ReportLog 报表生成记录
type ReportLog struct {
	ID          int64              `json:"id"`
	SessionID   string             `json:"sessionId"`
	ProjectID   string             `json:"projectId"`
	ProjectName string             `json:"projectName"`
	FileName    string             `json:"fileName"`
	TotalHours  float64            `json:"totalHours"`
	RoleHours   map[string]float64 `json:"roleHours"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateReportLog 记录一次报表生成并返回 ID
func (s *Store) CreateReportLog(ctx context.Context, sessionID string, project model.Project, fileName string, v model.RoleHoursVector) (int64, error) {
	roleHours, err := json.Marshal(v[:])
	if err != nil {
		return 0, fmt.Errorf("failed to encode role hours: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO report_logs (session_id, project_id, project_name, file_name, total_hours, role_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sessionID, project.ID, project.Name, fileName, v.Sum(), string(roleHours), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create report log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report log id: %w", err)
	}
	return id, nil
}

// ListReportLogs 按时间倒序返回报表记录，limit <= 0 时为 50
func (s *Store) ListReportLogs(ctx context.Context, limit int) ([]ReportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, project_id, project_name, file_name, total_hours, role_hours, created_at
		FROM report_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report logs: %w", err)
	}
	defer rows.Close()

	var out []ReportLog
	for rows.Next() {
		var (
			r         ReportLog
			roleHours string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ProjectID, &r.ProjectName, &r.FileName, &r.TotalHours, &roleHours, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report log: %w", err)
		}
		var vec model.RoleHoursVector
		if err := json.Unmarshal([]byte(roleHours), &vec); err != nil {
			return nil, fmt.Errorf("failed to decode role hours: %w", err)
		}
		r.RoleHours = vec.Map()
		out = append(out, r)
	}
	return out, rows.Err()
}

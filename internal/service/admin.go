package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrBadReportStatus = errors.New("unknown report status")
	ErrBadEntityType   = errors.New("unknown entity type")
)

var reportableEntities = map[string]bool{
	"post":    true,
	"comment": true,
	"user":    true,
	"listing": true,
	"group":   true,
	"reel":    true,
}

// AdminService backs the moderation console: platform totals, the report
// queue, and removals that override ownership checks.
type AdminService interface {
	Totals(ctx context.Context) (*model.Totals, error)

	FileReport(ctx context.Context, reporterID int64, entityType string, entityID int64, reason string) (*model.Report, error)
	OpenReports(ctx context.Context, limit int32) ([]model.Report, error)
	ResolveReport(ctx context.Context, reportID int64) error
	DismissReport(ctx context.Context, reportID int64) error
}

type adminService struct {
	reports store.ReportStore
	stats   store.StatsStore
}

func NewAdminService(reports store.ReportStore, stats store.StatsStore) AdminService {
	return &adminService{reports: reports, stats: stats}
}

func (s *adminService) Totals(ctx context.Context) (*model.Totals, error) {
	totals, err := s.stats.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}
	return totals, nil
}

func (s *adminService) FileReport(ctx context.Context, reporterID int64, entityType string, entityID int64, reason string) (*model.Report, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.admin",
		UserID:    &reporterID,
	})

	if !reportableEntities[entityType] {
		return nil, ErrBadEntityType
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyContent
	}

	report := &model.Report{
		ID:         id.New(),
		ReporterID: reporterID,
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     reason,
		Status:     model.ReportOpen,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	slog.InfoContext(ctx, "report filed",
		"report_id", report.ID,
		"entity_type", entityType,
		"entity_id", entityID)
	return report, nil
}

func (s *adminService) OpenReports(ctx context.Context, limit int32) ([]model.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.reports.ListByStatus(ctx, model.ReportOpen, limit)
}

func (s *adminService) ResolveReport(ctx context.Context, reportID int64) error {
	return s.closeReport(ctx, reportID, model.ReportResolved)
}

func (s *adminService) DismissReport(ctx context.Context, reportID int64) error {
	return s.closeReport(ctx, reportID, model.ReportDismissed)
}

func (s *adminService) closeReport(ctx context.Context, reportID int64, status string) error {
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("getting report: %w", err)
	}

	now := time.Now()
	if err := s.reports.UpdateStatus(ctx, reportID, status, &now); err != nil {
		return fmt.Errorf("updating report status: %w", err)
	}

	slog.InfoContext(ctx, "report closed", "report_id", reportID, "status", status)
	return nil
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerview/ledgerview/internal/balance"
	"github.com/ledgerview/ledgerview/internal/balance/export"
	jobmetrics "github.com/ledgerview/ledgerview/internal/jobs"
)

// ReportExportJob renders a report query to a CSV artifact on disk.
type ReportExportJob struct {
	Service   *balance.Service
	ExportDir string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewReportExportJob wires dependencies for the export handler.
func NewReportExportJob(service *balance.Service, exportDir string, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportExportJob {
	return &ReportExportJob{
		Service:   service,
		ExportDir: exportDir,
		Logger:    logger,
		Metrics:   metrics,
	}
}

// Handle processes report export tasks.
func (j *ReportExportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("report export: handler not configured")
	}
	var payload ReportExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.JobID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportExport)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("job_id", payload.JobID))
	start := time.Now()
	logger.Info("starting report export")

	report, err := j.Service.Report(ctx, payload.Query)
	if err != nil {
		resultErr = err
		logger.Error("compute report", slog.Any("error", err))
		return resultErr
	}

	if err := os.MkdirAll(j.ExportDir, 0o755); err != nil {
		resultErr = err
		return resultErr
	}
	path := filepath.Join(j.ExportDir, fmt.Sprintf("balance_report_%s.csv", payload.JobID))
	file, err := os.Create(path)
	if err != nil {
		resultErr = err
		return resultErr
	}
	defer func() { _ = file.Close() }()

	if err := export.WriteCSV(file, report.Rows, report.Depth, report.Columns); err != nil {
		resultErr = err
		logger.Error("write export", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed report export",
		slog.String("path", path),
		slog.Int("rows", len(report.Rows)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ReportExportJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportExportJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

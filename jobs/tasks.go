package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ledgerview/ledgerview/internal/balance"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup precomputes aggregates for recently viewed reports.
	TaskReportWarmup = "report:warmup"
	// TaskReportExport renders a report to a CSV artifact on disk.
	TaskReportExport = "report:export"
)

// ReportWarmupPayload scopes a warmup run.
type ReportWarmupPayload struct {
	Scope string `json:"scope"`
}

// NewReportWarmupTask constructs a warmup task.
func NewReportWarmupTask(scope string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// ReportExportPayload carries everything needed to render one export.
type ReportExportPayload struct {
	JobID string              `json:"jobId"`
	Query balance.ReportQuery `json:"query"`
}

// NewReportExportTask constructs an export task with a fresh job ID.
func NewReportExportTask(query balance.ReportQuery) (*asynq.Task, string, error) {
	payload := ReportExportPayload{
		JobID: uuid.NewString(),
		Query: query,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return asynq.NewTask(TaskReportExport, data), payload.JobID, nil
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerview/ledgerview/internal/balance"
	jobmetrics "github.com/ledgerview/ledgerview/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportWarmupJob replays recently viewed report queries through the cache
// so the first morning request of a back-office session hits warm
// aggregates.
type ReportWarmupJob struct {
	Service *balance.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(service *balance.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting report warmup")
	start := j.now()

	queries, err := j.Service.RecentQueries(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load recent queries", slog.Any("error", err))
		return resultErr
	}
	if len(queries) == 0 {
		logger.Info("no recent queries to warm")
		return resultErr
	}

	warmed := 0
	for _, q := range queries {
		if _, err := j.Service.Report(ctx, q); err != nil {
			resultErr = err
			logger.Error("warm query", slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed report warmup",
		slog.Int("queries", warmed),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

package workflow

import (
	"context"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JobDispatcher drains the processing_jobs outbox in the background when
// PROCESSING_MODE=queue. Claiming flips PENDING rows to PROCESSING inside a
// transaction so concurrent dispatchers never double-run a job.
type JobDispatcher struct {
	Pipeline     *Pipeline
	Logger       *logrus.Logger
	DispatcherID string

	BatchSize    int
	PollInterval time.Duration
}

func NewJobDispatcher(pipeline *Pipeline, logger *logrus.Logger) *JobDispatcher {
	return &JobDispatcher{
		Pipeline:     pipeline,
		Logger:       logger,
		DispatcherID: uuid.NewString(),
		BatchSize:    20,
		PollInterval: 2 * time.Second,
	}
}

func (d *JobDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *JobDispatcher) dispatchOnce(ctx context.Context) {
	if config.GetDB() == nil {
		return
	}

	jobs, err := models.ClaimPendingJobs(ctx, d.BatchSize)
	if err != nil {
		config.LogError(d.Logger, "workflow", "dispatchOnce", "claim failed", d.DispatcherID, err)
		return
	}

	for _, job := range jobs {
		if err := d.Pipeline.ExecuteJob(ctx, job); err != nil {
			config.LogError(d.Logger, "workflow", "dispatchOnce", "job failed", job.ID.String(), err)
			continue
		}
		d.Logger.WithFields(logrus.Fields{
			"job_id":          job.ID.String(),
			"content_item_id": job.ContentItemId.String(),
			"dispatcher_id":   d.DispatcherID,
			"attempts":        job.Attempts,
		}).Info("processing job completed")
	}
}

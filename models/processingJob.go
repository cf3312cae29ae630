package models

import (
	"context"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessingJob is an outbox row: written in the same transaction as its
// content item, consumed either inline (default) or by the background
// dispatcher when PROCESSING_MODE=queue.
type ProcessingJob struct {
	ID            uuid.UUID           `gorm:"primary_key" json:"id"`
	ContentItemId uuid.UUID           `gorm:"not null;index" json:"content_item_id"`
	UserId        int                 `gorm:"not null;index" json:"user_id"`
	Status        ProcessingJobStatus `gorm:"type:enum('PENDING','PROCESSING','DONE','FAILED');default:'PENDING';index" json:"status"`
	// Text carries the raw direct input so a dispatcher on another instance
	// can process the job without the original request in hand.
	Text          *string             `gorm:"type:longtext" json:"-"`
	Attempts      int                 `gorm:"not null;default:0" json:"attempts"`
	LastError     *string             `gorm:"type:text" json:"last_error"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

const maxJobAttempts = 3

// ClaimPendingJobs flips up to limit PENDING rows to PROCESSING and returns
// them. The UPDATE guard on status keeps two dispatcher ticks from claiming
// the same row.
func ClaimPendingJobs(ctx context.Context, limit int) ([]*ProcessingJob, error) {
	db := config.GetDB()
	var jobs []*ProcessingJob
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND attempts < ?", ProcessingJobStatusPending, maxJobAttempts).
			Order("created_at ASC").
			Limit(limit).
			Find(&jobs).Error; err != nil {
			return err
		}
		for _, job := range jobs {
			result := tx.Model(&ProcessingJob{}).
				Where("id = ? AND status = ?", job.ID, ProcessingJobStatusPending).
				Updates(map[string]interface{}{
					"status":   ProcessingJobStatusProcessing,
					"attempts": gorm.Expr("attempts + 1"),
				})
			if result.Error != nil {
				return result.Error
			}
			job.Status = ProcessingJobStatusProcessing
			job.Attempts++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func MarkJobDone(ctx context.Context, id uuid.UUID) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": ProcessingJobStatusDone, "last_error": nil}).Error
}

// jobFailureStatus decides whether a failed run gets another dispatcher tick.
func jobFailureStatus(attempts int) ProcessingJobStatus {
	if attempts >= maxJobAttempts {
		return ProcessingJobStatusFailed
	}
	return ProcessingJobStatusPending
}

// MarkJobFailed records the error; rows under the attempt cap go back to
// PENDING for the next tick, exhausted ones stay FAILED.
func MarkJobFailed(ctx context.Context, id uuid.UUID, attempts int, jobErr error) error {
	status := jobFailureStatus(attempts)
	message := jobErr.Error()
	db := config.GetDB()
	return db.WithContext(ctx).Model(&ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "last_error": message}).Error
}

// MarkJobFailedFinal marks the job FAILED regardless of remaining attempts.
// Used for inline execution, which has no retry loop behind it.
func MarkJobFailedFinal(ctx context.Context, id uuid.UUID, jobErr error) error {
	return MarkJobFailed(ctx, id, maxJobAttempts, jobErr)
}

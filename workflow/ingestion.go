package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UploadInput is the normalized ingestion request. File fields are filled in
// by the handler after the blob upload succeeds.
type UploadInput struct {
	Title       string
	Description string
	CompanyName string
	ContentType models.ContentType
	Source      models.ContentSource
	SourceURL   string
	Text        string

	StoragePath  *string
	FileName     *string
	FileSize     *int64
	MimeType     *string
	ThumbnailURL *string
}

type ProcessingMode string

const (
	ProcessingModeInline ProcessingMode = "inline"
	ProcessingModeQueue  ProcessingMode = "queue"
)

func GetProcessingMode() ProcessingMode {
	if strings.EqualFold(os.Getenv("PROCESSING_MODE"), string(ProcessingModeQueue)) {
		return ProcessingModeQueue
	}
	return ProcessingModeInline
}

// Pipeline owns content ingestion: company resolution, the content item +
// job transaction, and (in inline mode) running the job before returning.
type Pipeline struct {
	Processor ContentProcessor
}

func NewPipeline(processor ContentProcessor) *Pipeline {
	return &Pipeline{Processor: processor}
}

// Ingest runs the full upload flow for one request. When this request
// created the company and the content transaction fails, the orphan company
// row is deleted so retries see the same initial state.
func (p *Pipeline) Ingest(ctx context.Context, userId int, input *UploadInput) (*models.ContentItem, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, errors.New("company name is required")
	}

	if strings.TrimSpace(input.Title) == "" {
		input.Title = "Content Upload - " + time.Now().Format("1/2/2006, 3:04:05 PM")
	}
	if input.ContentType == "" {
		input.ContentType = models.ContentTypeText
	}
	if input.Source == "" {
		input.Source = models.ContentSourceDirectInput
	}

	company, companyCreated, err := models.FindOrCreateCompanyByName(ctx, input.CompanyName, input.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	item, job, err := p.createContentWithJob(ctx, userId, company, input)
	if err != nil {
		if companyCreated {
			if compErr := models.DeleteCompany(ctx, company.ID); compErr != nil {
				config.LogError(config.GetLogger(), "workflow", "Ingest",
					"compensation delete of company failed", company.ID.String(), compErr)
			}
		}
		return nil, err
	}

	switch GetProcessingMode() {
	case ProcessingModeQueue:
		// The dispatcher picks the PENDING row up on its next tick; publish a
		// nudge so remote workers do not wait for the poll interval.
		p.notifyQueued(ctx, job)
	default:
		if err := p.ExecuteJob(ctx, job); err != nil {
			return nil, err
		}
	}

	return models.GetContentItem(ctx, userId, item.ID.String())
}

func (p *Pipeline) createContentWithJob(ctx context.Context, userId int, company *models.Company, input *UploadInput) (*models.ContentItem, *models.ProcessingJob, error) {
	companyId := company.ID.String()
	item := &models.ContentItem{
		ID:           uuid.New(),
		UserId:       userId,
		CompanyId:    &companyId,
		Title:        input.Title,
		ContentType:  input.ContentType,
		Source:       input.Source,
		Status:       models.ContentStatusPending,
		SourceURL:    utils.NilIfEmpty(input.SourceURL),
		StoragePath:  input.StoragePath,
		FileName:     input.FileName,
		FileSize:     input.FileSize,
		MimeType:     input.MimeType,
		ThumbnailURL: input.ThumbnailURL,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		item.Description = &desc
	}

	job := &models.ProcessingJob{
		ID:            uuid.New(),
		ContentItemId: item.ID,
		UserId:        userId,
		Status:        models.ProcessingJobStatusPending,
	}
	if input.Source == models.ContentSourceDirectInput {
		if text := strings.TrimSpace(input.Text); text != "" {
			job.Text = &input.Text
		}
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Create(job).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create content item: %w", err)
	}
	return item, job, nil
}

// ExecuteJob runs one processing job to completion. Artifacts and the status
// flip commit in a single transaction; a processing error marks the item
// FAILED and records the error on the job.
func (p *Pipeline) ExecuteJob(ctx context.Context, job *models.ProcessingJob) error {
	db := config.GetDB()

	var item models.ContentItem
	if err := db.WithContext(ctx).Where("id = ?", job.ContentItemId).First(&item).Error; err != nil {
		markErr := markJobFailure(ctx, job, err)
		if markErr != nil {
			return markErr
		}
		return err
	}

	text := ""
	if job.Text != nil {
		text = *job.Text
	}

	transcription, insights, err := p.Processor.Analyze(ctx, text)
	if err == nil {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if transcription != nil {
				transcription.ContentItemId = item.ID
				if err := tx.Create(transcription).Error; err != nil {
					return err
				}
			}
			for _, insight := range insights {
				insight.ContentItemId = item.ID
				insight.UserId = item.UserId
				insight.CompanyId = item.CompanyId
				if err := tx.Create(insight).Error; err != nil {
					return err
				}
			}
			return models.MarkContentItemStatus(ctx, tx, item.ID, models.ContentStatusCompleted)
		})
	}
	if err != nil {
		if statusErr := models.MarkContentItemStatus(ctx, db, item.ID, models.ContentStatusFailed); statusErr != nil {
			config.LogError(config.GetLogger(), "workflow", "ExecuteJob",
				"failed to mark content item FAILED", item.ID.String(), statusErr)
		}
		if markErr := markJobFailure(ctx, job, err); markErr != nil {
			return markErr
		}
		return err
	}

	return models.MarkJobDone(ctx, job.ID)
}

// markJobFailure records a failed run. Jobs the dispatcher claimed keep their
// retry budget; a job with zero attempts was executed inline, where no retry
// loop exists, so its failure is final.
func markJobFailure(ctx context.Context, job *models.ProcessingJob, jobErr error) error {
	if job.Attempts == 0 {
		return models.MarkJobFailedFinal(ctx, job.ID, jobErr)
	}
	return models.MarkJobFailed(ctx, job.ID, job.Attempts, jobErr)
}

func newProcessingJobMessage(job *models.ProcessingJob, correlationId string) config.ProcessingJobMessage {
	return config.ProcessingJobMessage{
		JobId:         job.ID.String(),
		ContentItemId: job.ContentItemId.String(),
		UserId:        fmt.Sprint(job.UserId),
		QueuedAt:      time.Now().UTC(),
		CorrelationId: correlationId,
	}
}

func (p *Pipeline) notifyQueued(ctx context.Context, job *models.ProcessingJob) {
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	err := config.PublishProcessingJob(ctx, newProcessingJobMessage(job, correlationId))
	if err != nil {
		// The poll loop still picks the row up; the notification is best-effort.
		config.LogError(config.GetLogger(), "workflow", "notifyQueued",
			"pub/sub notify failed", job.ID.String(), err)
	}
}

// CreateDirectTextContent backs the process-text endpoint: a COMPLETED TEXT
// item plus its echo transcription, no company resolution, no insight.
func CreateDirectTextContent(ctx context.Context, userId int, title string, text string) (*models.ContentItem, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(text) == "" {
		return nil, errors.New("title and text are required")
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("Direct text input - %d characters", len(text))
	item := &models.ContentItem{
		ID:          uuid.New(),
		UserId:      userId,
		Title:       title,
		Description: &description,
		ContentType: models.ContentTypeText,
		Source:      models.ContentSourceDirectInput,
		Status:      models.ContentStatusCompleted,
		ProcessedAt: &now,
	}
	transcription := &models.Transcription{
		ID:            uuid.New(),
		ContentItemId: item.ID,
		Text:          text,
		Language:      "en",
		Confidence:    decimal.NewFromInt(1),
		WordCount:     utils.CountWords(text),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Create(transcription).Error
	})
	if err != nil {
		return nil, err
	}
	item.Transcriptions = []*models.Transcription{transcription}
	return item, nil
}

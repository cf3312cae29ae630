package workflow

import (
	"context"
	"strings"

	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContentProcessor turns raw text into analysis artifacts. The ingestion
// pipeline depends on this interface so the heuristic implementation can be
// swapped for a real transcription/AI backend without touching the pipeline.
type ContentProcessor interface {
	Analyze(ctx context.Context, text string) (*models.Transcription, []*models.BusinessInsight, error)
}

// HeuristicProcessor is the placeholder analysis backend: the transcription
// echoes the input text and a single fixed insight marks the item analyzed.
type HeuristicProcessor struct{}

func NewHeuristicProcessor() *HeuristicProcessor {
	return &HeuristicProcessor{}
}

func (p *HeuristicProcessor) Analyze(ctx context.Context, text string) (*models.Transcription, []*models.BusinessInsight, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	transcription := &models.Transcription{
		ID:         uuid.New(),
		Text:       text,
		Language:   "en",
		Confidence: decimal.NewFromInt(1),
		WordCount:  utils.CountWords(text),
	}

	insight := &models.BusinessInsight{
		ID:         uuid.New(),
		Category:   models.InsightCategoryBusinessModel,
		Title:      "Text Analysis Complete",
		Content:    "Content has been processed and analyzed for business insights.",
		Confidence: decimal.NewFromFloat(0.8),
		Priority:   models.InsightPriorityMedium,
	}

	return transcription, []*models.BusinessInsight{insight}, nil
}

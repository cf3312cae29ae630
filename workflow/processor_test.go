package workflow

import (
	"context"
	"testing"

	"github.com/contentlens/insight_backend/models"
	"github.com/shopspring/decimal"
)

func TestHeuristicProcessorEchoesText(t *testing.T) {
	processor := NewHeuristicProcessor()

	transcription, insights, err := processor.Analyze(context.Background(), "alpha beta   gamma\n delta")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if transcription == nil {
		t.Fatal("expected a transcription")
	}
	if transcription.Text != "alpha beta   gamma\n delta" {
		t.Errorf("transcription does not echo the input: %q", transcription.Text)
	}
	if transcription.Language != "en" {
		t.Errorf("language = %q, want en", transcription.Language)
	}
	if !transcription.Confidence.Equal(decimal.NewFromInt(1)) {
		t.Errorf("confidence = %s, want 1", transcription.Confidence)
	}
	if transcription.WordCount != 4 {
		t.Errorf("word count = %d, want 4", transcription.WordCount)
	}

	if len(insights) != 1 {
		t.Fatalf("expected exactly 1 insight, got %d", len(insights))
	}
	insight := insights[0]
	if insight.Category != models.InsightCategoryBusinessModel {
		t.Errorf("category = %s, want BUSINESS_MODEL", insight.Category)
	}
	if insight.Title != "Text Analysis Complete" {
		t.Errorf("title = %q", insight.Title)
	}
	if insight.Content != "Content has been processed and analyzed for business insights." {
		t.Errorf("content = %q", insight.Content)
	}
	if insight.Priority != models.InsightPriorityMedium {
		t.Errorf("priority = %s, want MEDIUM", insight.Priority)
	}
	if !insight.Confidence.Equal(decimal.NewFromFloat(0.8)) {
		t.Errorf("confidence = %s, want 0.8", insight.Confidence)
	}
}

func TestHeuristicProcessorSkipsEmptyText(t *testing.T) {
	processor := NewHeuristicProcessor()

	transcription, insights, err := processor.Analyze(context.Background(), "   \n\t ")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if transcription != nil || insights != nil {
		t.Fatal("expected no artifacts for blank input")
	}
}

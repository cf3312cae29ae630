package workflow

import (
	"testing"

	"github.com/contentlens/insight_backend/models"
	"github.com/google/uuid"
)

func testItem(title string, description string, transcription string, insightContents ...string) *models.ContentItem {
	item := &models.ContentItem{
		ID:          uuid.New(),
		Title:       title,
		ContentType: models.ContentTypeText,
		Source:      models.ContentSourceDirectInput,
		Status:      models.ContentStatusCompleted,
	}
	if description != "" {
		item.Description = &description
	}
	if transcription != "" {
		item.Transcriptions = []*models.Transcription{{ID: uuid.New(), Text: transcription}}
	}
	for _, content := range insightContents {
		item.BusinessInsights = append(item.BusinessInsights, &models.BusinessInsight{
			ID:       uuid.New(),
			Category: models.InsightCategoryBusinessModel,
			Content:  content,
		})
	}
	return item
}

func TestAnalyzeConsistencyFiresOnOpposingStatements(t *testing.T) {
	items := []*models.ContentItem{
		testItem("Plans to grow the business", "", ""),
		testItem("Cost cutting", "We will reduce headcount", ""),
	}

	findings := AnalyzeConsistency(items)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	f := findings[0]
	if f.Title != "Contradiction: increase vs decrease" {
		t.Errorf("unexpected title %q", f.Title)
	}
	if f.Severity != "MEDIUM" {
		t.Errorf("unexpected severity %q", f.Severity)
	}
	if len(f.RelatedContent) != 2 {
		t.Fatalf("expected both items related, got %d", len(f.RelatedContent))
	}
	if f.RelatedContent[0].Title != "Plans to grow the business" {
		t.Errorf("related content order changed: %q", f.RelatedContent[0].Title)
	}
}

func TestAnalyzeConsistencyNeedsBothSides(t *testing.T) {
	items := []*models.ContentItem{
		testItem("Growth", "We expand into new markets and increase sales", ""),
		testItem("More growth", "Revenue will grow", ""),
	}

	if findings := AnalyzeConsistency(items); len(findings) != 0 {
		t.Fatalf("expected no findings for one-sided corpus, got %d", len(findings))
	}
}

func TestAnalyzeConsistencyReadsTranscriptionsAndInsights(t *testing.T) {
	// The contradiction only exists across a transcription and an insight.
	items := []*models.ContentItem{
		testItem("Q1 recording", "", "the product is very modern and uses the latest stack"),
		testItem("Q2 notes", "", "", "their tooling is outdated"),
	}

	findings := AnalyzeConsistency(items)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Title != "Contradiction: modern vs old" {
		t.Errorf("unexpected title %q", findings[0].Title)
	}
	// Neither title nor description matches the pair, so nothing is related.
	if len(findings[0].RelatedContent) != 0 {
		t.Errorf("expected empty related content, got %d entries", len(findings[0].RelatedContent))
	}
}

func TestAnalyzeConsistencyMultiplePatterns(t *testing.T) {
	items := []*models.ContentItem{
		testItem("Upbeat", "A profitable and successful year, we expand fast", ""),
		testItem("Downbeat", "Heavy loss reported, we shrink the team", ""),
	}

	findings := AnalyzeConsistency(items)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Title != "Contradiction: increase vs decrease" {
		t.Errorf("unexpected first title %q", findings[0].Title)
	}
	if findings[1].Title != "Contradiction: profitable vs loss" {
		t.Errorf("unexpected second title %q", findings[1].Title)
	}
}

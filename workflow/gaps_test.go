package workflow

import (
	"testing"

	"github.com/contentlens/insight_backend/models"
	"github.com/google/uuid"
)

func gapItem(contentType models.ContentType, categories ...models.InsightCategory) *models.ContentItem {
	item := &models.ContentItem{
		ID:          uuid.New(),
		Title:       "item",
		ContentType: contentType,
		Status:      models.ContentStatusCompleted,
	}
	for _, category := range categories {
		item.BusinessInsights = append(item.BusinessInsights, &models.BusinessInsight{
			ID:       uuid.New(),
			Category: category,
		})
	}
	return item
}

func TestAnalyzeGapsCountsMissingCategoriesAndTypes(t *testing.T) {
	items := []*models.ContentItem{
		gapItem(models.ContentTypeText, models.InsightCategoryBusinessModel),
	}

	gaps := AnalyzeGaps(items)

	// 9 of 10 categories uncovered, 4 of 5 content types uncovered.
	if len(gaps) != 13 {
		t.Fatalf("expected 13 gaps, got %d", len(gaps))
	}

	byTitle := map[string]models.ContentGap{}
	for _, gap := range gaps {
		byTitle[gap.Title] = gap
	}

	if _, ok := byTitle["Missing business model insights"]; ok {
		t.Error("covered category BUSINESS_MODEL reported as a gap")
	}
	if _, ok := byTitle["Missing text content"]; ok {
		t.Error("covered content type TEXT reported as a gap")
	}

	financial, ok := byTitle["Missing financial insights"]
	if !ok {
		t.Fatal("expected a FINANCIAL gap")
	}
	if financial.Priority != "HIGH" || financial.Impact != "MEDIUM" || financial.Effort != "LOW" {
		t.Errorf("unexpected FINANCIAL gap fields: %+v", financial)
	}
	if financial.Description != "No content found covering financial aspects of your business" {
		t.Errorf("unexpected description %q", financial.Description)
	}
	if len(financial.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(financial.Recommendations))
	}

	opportunities, ok := byTitle["Missing opportunities insights"]
	if !ok {
		t.Fatal("expected an OPPORTUNITIES gap")
	}
	if opportunities.Priority != "LOW" {
		t.Errorf("OPPORTUNITIES gap priority = %q, want LOW", opportunities.Priority)
	}

	blog, ok := byTitle["Missing blog article content"]
	if !ok {
		t.Fatal("expected a BLOG_ARTICLE diversity gap")
	}
	if blog.Category != "CONTENT_DIVERSITY" || blog.Priority != "MEDIUM" || blog.Effort != "MEDIUM" {
		t.Errorf("unexpected BLOG_ARTICLE gap fields: %+v", blog)
	}
}

func TestAnalyzeGapsFullCoverage(t *testing.T) {
	items := []*models.ContentItem{
		gapItem(models.ContentTypeAudio, models.ExpectedInsightCategories...),
		gapItem(models.ContentTypeVideo),
		gapItem(models.ContentTypeBlogArticle),
		gapItem(models.ContentTypeDocument),
		gapItem(models.ContentTypeText),
	}

	if gaps := AnalyzeGaps(items); len(gaps) != 0 {
		t.Fatalf("expected no gaps with full coverage, got %d", len(gaps))
	}
}

func TestOverallRecommendations(t *testing.T) {
	if recs := OverallRecommendations(nil); len(recs) != 0 {
		t.Fatalf("expected no recommendations for empty gap set, got %d", len(recs))
	}

	recs := OverallRecommendations([]models.ContentGap{{Title: "Missing text content"}})
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0] != "Focus on high-priority gaps first" {
		t.Errorf("unexpected first recommendation %q", recs[0])
	}
}

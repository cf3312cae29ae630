package workflow

import (
	"strings"

	"github.com/contentlens/insight_backend/models"
)

var highPriorityCategories = map[models.InsightCategory]bool{
	models.InsightCategoryBusinessModel: true,
	models.InsightCategoryFinancial:     true,
	models.InsightCategoryCustomer:      true,
	models.InsightCategoryRisks:         true,
}

var mediumPriorityCategories = map[models.InsightCategory]bool{
	models.InsightCategoryMarketing:  true,
	models.InsightCategoryOperations: true,
	models.InsightCategoryStrategic:  true,
	models.InsightCategoryProduct:    true,
}

func priorityForCategory(category models.InsightCategory) models.InsightPriority {
	if highPriorityCategories[category] {
		return models.InsightPriorityHigh
	}
	if mediumPriorityCategories[category] {
		return models.InsightPriorityMedium
	}
	return models.InsightPriorityLow
}

// humanize turns BUSINESS_MODEL into "business model" for report copy.
func humanize(enumValue string) string {
	return strings.ToLower(strings.ReplaceAll(enumValue, "_", " "))
}

// AnalyzeGaps reports which expected insight categories and content types the
// user's completed items never cover. Pure function over the fetched set.
func AnalyzeGaps(items []*models.ContentItem) []models.ContentGap {
	coveredCategories := map[models.InsightCategory]bool{}
	coveredTypes := map[models.ContentType]bool{}
	for _, item := range items {
		coveredTypes[item.ContentType] = true
		for _, insight := range item.BusinessInsights {
			coveredCategories[insight.Category] = true
		}
	}

	gaps := []models.ContentGap{}

	for _, category := range models.ExpectedInsightCategories {
		if coveredCategories[category] {
			continue
		}
		label := humanize(string(category))
		gaps = append(gaps, models.ContentGap{
			Category:    string(category),
			Title:       "Missing " + label + " insights",
			Description: "No content found covering " + label + " aspects of your business",
			Priority:    string(priorityForCategory(category)),
			Impact:      string(models.InsightPriorityMedium),
			Effort:      string(models.InsightPriorityLow),
			Recommendations: []string{
				"Create content specifically addressing " + label,
				"Include " + label + " questions in your content strategy",
				"Analyze existing content for " + label + " opportunities",
			},
			RelatedContent: []models.RelatedContentRef{},
		})
	}

	for _, contentType := range models.ExpectedContentTypes {
		if coveredTypes[contentType] {
			continue
		}
		label := humanize(string(contentType))
		gaps = append(gaps, models.ContentGap{
			Category:    "CONTENT_DIVERSITY",
			Title:       "Missing " + label + " content",
			Description: "No " + label + " content found in your library",
			Priority:    string(models.InsightPriorityMedium),
			Impact:      string(models.InsightPriorityMedium),
			Effort:      string(models.InsightPriorityMedium),
			Recommendations: []string{
				"Consider creating " + label + " content",
				"Diversify your content strategy to include " + label,
				"Upload existing " + label + " content for analysis",
			},
			RelatedContent: []models.RelatedContentRef{},
		})
	}

	return gaps
}

// OverallRecommendations is the run-level summary attached to the report.
func OverallRecommendations(gaps []models.ContentGap) []string {
	if len(gaps) == 0 {
		return []string{}
	}
	return []string{
		"Focus on high-priority gaps first",
		"Create a content calendar to address missing areas",
		"Regularly review and update your content strategy",
	}
}

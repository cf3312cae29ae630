package workflow

import (
	"strings"

	"github.com/contentlens/insight_backend/models"
)

// MinConsistencyItems is the smallest corpus a consistency run accepts.
const MinConsistencyItems = 2

type polarityPair struct {
	positive []string
	negative []string
}

// The three fixed contradiction patterns. A pair fires when the combined
// corpus contains at least one word from each side.
var contradictionPatterns = []polarityPair{
	{
		positive: []string{"increase", "grow", "expand"},
		negative: []string{"decrease", "shrink", "reduce"},
	},
	{
		positive: []string{"profitable", "successful"},
		negative: []string{"loss", "failing", "struggling"},
	},
	{
		positive: []string{"modern", "new", "latest"},
		negative: []string{"old", "outdated", "traditional"},
	},
}

func itemCorpusText(item *models.ContentItem) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString(" ")
	if item.Description != nil {
		b.WriteString(*item.Description)
	}
	b.WriteString(" ")
	if len(item.Transcriptions) > 0 {
		b.WriteString(item.Transcriptions[0].Text)
	}
	b.WriteString(" ")
	for i, insight := range item.BusinessInsights {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(insight.Content)
	}
	return strings.ToLower(b.String())
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// AnalyzeConsistency scans the user's completed items for the fixed
// contradiction patterns. Pure function over the fetched set; matching is
// plain substring containment on the lowercased corpus.
func AnalyzeConsistency(items []*models.ContentItem) []models.ConsistencyFinding {
	corpusParts := make([]string, 0, len(items))
	for _, item := range items {
		corpusParts = append(corpusParts, itemCorpusText(item))
	}
	corpus := strings.Join(corpusParts, " ")

	findings := []models.ConsistencyFinding{}
	for _, pattern := range contradictionPatterns {
		if !containsAny(corpus, pattern.positive) || !containsAny(corpus, pattern.negative) {
			continue
		}

		// related_content matches on title+description only, not the full
		// item corpus: a contradiction buried in a transcription does not
		// implicate the item in the report listing.
		related := []models.RelatedContentRef{}
		for _, item := range items {
			ownText := strings.ToLower(item.Title)
			if item.Description != nil {
				ownText += " " + strings.ToLower(*item.Description)
			}
			if containsAny(ownText, pattern.positive) || containsAny(ownText, pattern.negative) {
				related = append(related, models.RelatedContentRef{
					Id:    item.ID.String(),
					Title: item.Title,
				})
			}
		}

		findings = append(findings, models.ConsistencyFinding{
			Title:          "Contradiction: " + pattern.positive[0] + " vs " + pattern.negative[0],
			Description:    "Content contains both positive and negative statements about " + pattern.positive[0],
			Severity:       string(models.InsightPriorityMedium),
			RelatedContent: related,
		})
	}
	return findings
}

package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/google/uuid"
)

// RelatedContentRef points a finding back at the items it fired on.
type RelatedContentRef struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

// ConsistencyFinding is one fired contradiction pair, stored as JSON inside
// the report row.
type ConsistencyFinding struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Severity       string              `json:"severity"`
	RelatedContent []RelatedContentRef `json:"related_content"`
}

// ContentGap is one detected gap (missing insight category or missing content
// type), stored as JSON inside the report row.
type ContentGap struct {
	Category        string              `json:"category"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Priority        string              `json:"priority"`
	Impact          string              `json:"impact"`
	Effort          string              `json:"effort"`
	Recommendations []string            `json:"recommendations"`
	RelatedContent  []RelatedContentRef `json:"related_content"`
}

type ConsistencyReport struct {
	ID            uuid.UUID       `gorm:"primary_key" json:"id"`
	UserId        int             `gorm:"not null;index" json:"user_id"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Description   string          `gorm:"size:500" json:"description"`
	Findings      json.RawMessage `gorm:"type:json" json:"contradictions"`
	TotalFindings int             `json:"total_contradictions"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type GapAnalysisReport struct {
	ID              uuid.UUID       `gorm:"primary_key" json:"id"`
	UserId          int             `gorm:"not null;index" json:"user_id"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"size:500" json:"description"`
	Gaps            json.RawMessage `gorm:"type:json" json:"gaps"`
	TotalGaps       int             `json:"total_gaps"`
	PriorityGaps    int             `json:"priority_gaps"`
	Recommendations json.RawMessage `gorm:"type:json" json:"recommendations"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// CreateConsistencyReport persists a run's findings. The title carries the run
// date the way the reports list displays it.
func CreateConsistencyReport(ctx context.Context, userId int, findings []ConsistencyFinding) (*ConsistencyReport, error) {
	if findings == nil {
		findings = []ConsistencyFinding{}
	}
	payload, err := json.Marshal(findings)
	if err != nil {
		return nil, err
	}
	report := &ConsistencyReport{
		ID:            uuid.New(),
		UserId:        userId,
		Title:         "Consistency Check - " + time.Now().Format("1/2/2006"),
		Description:   "Automated consistency analysis of all content",
		Findings:      payload,
		TotalFindings: len(findings),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func GetConsistencyReports(ctx context.Context, userId int) ([]*ConsistencyReport, error) {
	db := config.GetDB()
	var reports []*ConsistencyReport
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateGapAnalysisReport persists a run. priorityGaps counts HIGH and
// CRITICAL entries; recommendations are the run-level templated suggestions.
func CreateGapAnalysisReport(ctx context.Context, userId int, gaps []ContentGap, recommendations []string) (*GapAnalysisReport, error) {
	if gaps == nil {
		gaps = []ContentGap{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}
	gapsPayload, err := json.Marshal(gaps)
	if err != nil {
		return nil, err
	}
	recPayload, err := json.Marshal(recommendations)
	if err != nil {
		return nil, err
	}
	priorityGaps := 0
	for _, gap := range gaps {
		if gap.Priority == string(InsightPriorityHigh) || gap.Priority == string(InsightPriorityCritical) {
			priorityGaps++
		}
	}
	report := &GapAnalysisReport{
		ID:              uuid.New(),
		UserId:          userId,
		Title:           "Gap Analysis - " + time.Now().Format("1/2/2006"),
		Description:     "Automated gap analysis of content strategy",
		Gaps:            gapsPayload,
		TotalGaps:       len(gaps),
		PriorityGaps:    priorityGaps,
		Recommendations: recPayload,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func GetGapAnalysisReports(ctx context.Context, userId int) ([]*GapAnalysisReport, error) {
	db := config.GetDB()
	var reports []*GapAnalysisReport
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

package models

import (
	"context"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BusinessInsight struct {
	ID            uuid.UUID       `gorm:"primary_key" json:"id"`
	ContentItemId uuid.UUID       `gorm:"not null;index" json:"content_item_id"`
	UserId        int             `gorm:"not null;index" json:"user_id"`
	CompanyId     *string         `gorm:"size:36;index" json:"company_id"`
	Category      InsightCategory `gorm:"type:enum('BUSINESS_MODEL','MARKETING','OPERATIONS','FINANCIAL','STRATEGIC','CUSTOMER','PRODUCT','COMPETITIVE','RISKS','OPPORTUNITIES');not null" json:"category"`
	Title         string          `gorm:"size:500;not null" json:"title"`
	Content       string          `gorm:"type:text;not null" json:"content"`
	Confidence    decimal.Decimal `gorm:"type:decimal(4,3)" json:"confidence"`
	Priority      InsightPriority `gorm:"type:enum('LOW','MEDIUM','HIGH','CRITICAL');default:'MEDIUM'" json:"priority"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`

	ContentItem *ContentItem `gorm:"foreignKey:ContentItemId" json:"content_item,omitempty"`
}

// GetBusinessInsights returns the caller's insights newest first with the
// owning content item summarized alongside.
func GetBusinessInsights(ctx context.Context, userId int) ([]*BusinessInsight, error) {
	db := config.GetDB()
	var insights []*BusinessInsight
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Preload("ContentItem").
		Order("created_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

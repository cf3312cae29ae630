package models

import (
	"context"
	"errors"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentItem struct {
	ID          uuid.UUID     `gorm:"primary_key" json:"id"`
	UserId      int           `gorm:"not null;index" json:"user_id"`
	CompanyId   *string       `gorm:"size:36;index" json:"company_id"`
	Title       string        `gorm:"size:500;not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	ContentType ContentType   `gorm:"type:enum('AUDIO','VIDEO','BLOG_ARTICLE','DOCUMENT','TEXT');not null" json:"content_type"`
	Source      ContentSource `gorm:"type:enum('FILE_UPLOAD','YOUTUBE_URL','BLOG_URL','DIRECT_INPUT');not null" json:"source"`
	Status      ContentStatus `gorm:"type:enum('PENDING','TRANSCRIBING','ANALYZING','COMPLETED','FAILED');default:'PENDING'" json:"status"`

	SourceURL    *string `gorm:"size:2048" json:"source_url"`
	StoragePath  *string `gorm:"size:1024" json:"storage_path"`
	FileName     *string `gorm:"size:512" json:"file_name"`
	FileSize     *int64  `json:"file_size"`
	MimeType     *string `gorm:"size:255" json:"mime_type"`
	ThumbnailURL *string `gorm:"size:1024" json:"thumbnail_url"`

	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Company          *Company           `gorm:"foreignKey:CompanyId" json:"company,omitempty"`
	Transcriptions   []*Transcription   `gorm:"foreignKey:ContentItemId" json:"transcriptions,omitempty"`
	BusinessInsights []*BusinessInsight `gorm:"foreignKey:ContentItemId" json:"business_insights,omitempty"`
}

func (item ContentItem) RemoveInstanceRedis() error {
	return utils.RemoveInstanceRedis[ContentItem](item.ID.String())
}

// GetContentItems returns the caller's items newest first with transcriptions,
// insights and company preloaded.
func GetContentItems(ctx context.Context, userId int) ([]*ContentItem, error) {
	db := config.GetDB()
	var items []*ContentItem
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Preload("Company").
		Preload("Transcriptions").
		Preload("BusinessInsights").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetCompletedContentItems feeds the analysis passes. Relations are preloaded
// because the heuristics read transcription text and insight contents.
func GetCompletedContentItems(ctx context.Context, userId int) ([]*ContentItem, error) {
	db := config.GetDB()
	var items []*ContentItem
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userId, ContentStatusCompleted).
		Preload("Transcriptions").
		Preload("BusinessInsights").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetContentItem scopes by owner: another user's id behaves as not-found.
func GetContentItem(ctx context.Context, userId int, id string) (*ContentItem, error) {
	db := config.GetDB()
	var item ContentItem
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Preload("Company").
		Preload("Transcriptions").
		Preload("BusinessInsights").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetContentItemsForCompany returns the caller's items attached to a company.
func GetContentItemsForCompany(ctx context.Context, userId int, companyId string) ([]*ContentItem, error) {
	db := config.GetDB()
	var items []*ContentItem
	err := db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userId, companyId).
		Preload("Transcriptions").
		Preload("BusinessInsights").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SearchContentItems matches the caller's items on title or description,
// capped at limit (search endpoint uses 10).
func SearchContentItems(ctx context.Context, userId int, query string, limit int) ([]*ContentItem, error) {
	db := config.GetDB()
	pattern := "%" + query + "%"
	var items []*ContentItem
	err := db.WithContext(ctx).
		Where("user_id = ? AND (LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", userId, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkContentItemStatus updates status, stamping processed_at on COMPLETED.
func MarkContentItemStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status ContentStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == ContentStatusCompleted {
		updates["processed_at"] = time.Now().UTC()
	}
	if err := tx.WithContext(ctx).Model(&ContentItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	return utils.RemoveInstanceRedis[ContentItem](id.String())
}

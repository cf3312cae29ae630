package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Transcription struct {
	ID            uuid.UUID       `gorm:"primary_key" json:"id"`
	ContentItemId uuid.UUID       `gorm:"not null;index" json:"content_item_id"`
	Text          string          `gorm:"type:longtext;not null" json:"text"`
	Language      string          `gorm:"size:10;default:'en'" json:"language"`
	Confidence    decimal.Decimal `gorm:"type:decimal(4,3)" json:"confidence"`
	WordCount     int             `json:"word_count"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

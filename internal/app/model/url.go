package model

import "time"

// URL is a shortened link. Clicks only ever grows, see URLRepository.IncrementClicks.
type URL struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OriginalURL string    `json:"original_url" gorm:"size:255;not null"`
	ShortCode   string    `json:"short_code" gorm:"size:16;not null;uniqueIndex"`
	Email       *string   `json:"email,omitempty" gorm:"size:255;index"`
	Clicks      int64     `json:"clicks" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
	TagID       *uint     `json:"tag_id,omitempty" gorm:"index"`
	Tag         *Tag      `json:"tag,omitempty" gorm:"foreignKey:TagID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// URLFilter narrows URL searches. Empty fields impose no constraint.
type URLFilter struct {
	Email       string
	OriginalURL string
	ShortCode   string
	TagID       *uint
}

// IsEmpty reports whether the filter matches every URL.
func (f URLFilter) IsEmpty() bool {
	return f.Email == "" && f.OriginalURL == "" && f.ShortCode == "" && f.TagID == nil
}

package model

import "time"

// ClickEvent records one successful redirect through a short code.
type ClickEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ShortCode string    `json:"short_code" gorm:"size:16;not null;index"`
	IP        string    `json:"ip" gorm:"size:64"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	Referer   string    `json:"referer" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

const (
	ClickStreamName     = "CLICKS"
	ClickStreamSubject  = "clicks.events"
	ClickConsumerName   = "click-recorder"
	ClickStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)

package models

import "time"

// Clip is the persisted output record of one ingestion. Status is "full"
// when the heavy path won, "basic" when the pipeline degraded. Immutable
// after assembly.
type Clip struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       int       `json:"user_id" gorm:"index;not null"`
	URL          string    `json:"url" gorm:"type:varchar(2048);not null"`
	FinalURL     string    `json:"final_url,omitempty" gorm:"type:varchar(2048)"`
	SourceType   string    `json:"source_type" gorm:"type:varchar(32)"`
	Status       string    `json:"status" gorm:"type:varchar(16);not null"`
	Title        string    `json:"title" gorm:"type:varchar(512)"`
	Summary      string    `json:"summary" gorm:"type:text"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	RawText      string    `json:"raw_text,omitempty" gorm:"type:text"`
	HTMLContent  string    `json:"html_content,omitempty" gorm:"type:text"`
	Images       []string  `json:"images" gorm:"serializer:json;type:text"`
	Tags         []string  `json:"tags,omitempty" gorm:"serializer:json;type:text"`
	Category     string    `json:"category,omitempty" gorm:"type:varchar(128)"`
	Author       string    `json:"author,omitempty" gorm:"type:varchar(255)"`
	AuthorAvatar string    `json:"author_avatar,omitempty" gorm:"type:varchar(2048)"`
	AuthorHandle string    `json:"author_handle,omitempty" gorm:"type:varchar(255)"`
	Language     string    `json:"language" gorm:"type:varchar(8)"`
	CreatedAt    time.Time `json:"created_at"`
}

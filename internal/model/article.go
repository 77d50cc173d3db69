package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ArticleStatus represents the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// ArticleCategory enumerates the portfolio sections an article can belong to.
type ArticleCategory string

const (
	CategoryGeneral        ArticleCategory = "general"
	CategoryProjects       ArticleCategory = "Projects"
	CategoryCertifications ArticleCategory = "Certifications"
	CategoryAchievements   ArticleCategory = "Achievements"
	CategoryCommunity      ArticleCategory = "Community"
	CategoryEvents         ArticleCategory = "Events"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ArticleStatus) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ArticleCategory) bool {
	switch c {
	case CategoryGeneral, CategoryProjects, CategoryCertifications,
		CategoryAchievements, CategoryCommunity, CategoryEvents:
		return true
	}
	return false
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
}

// Article represents a portfolio entry.
type Article struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Title      string          `json:"title" gorm:"size:200;not null"`
	Name       string          `json:"name" gorm:"uniqueIndex;size:255;not null"` // URL slug, [a-z0-9-]+
	Content    StringList      `json:"content" gorm:"type:json;not null"`
	Category   ArticleCategory `json:"category" gorm:"type:varchar(30);not null;default:'general';index"`
	Status     ArticleStatus   `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	AuthorID   uint            `json:"author" gorm:"not null;index"` // Immutable after creation
	AuthorName string          `json:"authorName" gorm:"size:255;not null"`
	Tags       StringList      `json:"tags" gorm:"type:json"`
	Excerpt    string          `json:"excerpt" gorm:"size:500"`
	ReadTime   int             `json:"readTime" gorm:"not null;default:1"` // minutes
	ViewCount  int64           `json:"viewCount" gorm:"not null;default:0"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ArticleSummary is the trimmed-down article shape used in stats payloads.
type ArticleSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Name      string `json:"name"`
	ViewCount int64  `json:"viewCount"`
}

// CategoryCount pairs a category with the number of articles in it.
type CategoryCount struct {
	Category ArticleCategory `json:"category"`
	Count    int64           `json:"count"`
}

// ArticleStats aggregates counters for the dashboard.
type ArticleStats struct {
	Total      int64            `json:"total"`
	Published  int64            `json:"published"`
	Draft      int64            `json:"draft"`
	Archived   int64            `json:"archived"`
	Categories []CategoryCount  `json:"categories"`
	Popular    []ArticleSummary `json:"popular"`
}

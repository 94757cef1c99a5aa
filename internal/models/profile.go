package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Profile captures a user's writing identity: tone, hard rules, and the
// insights produced by style analysis.
type Profile struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Name          string         `gorm:"not null" json:"name"`
	ToneTags      StringList     `gorm:"type:text" json:"tone_tags"`
	DoRules       StringList     `gorm:"type:text" json:"do_rules"`
	DontRules     StringList     `gorm:"type:text" json:"dont_rules"`
	StyleInsights *StyleInsights `gorm:"type:text" json:"style_insights,omitempty"`
	AnalyzedAt    *time.Time     `json:"analyzed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// StyleInsights describes recurring structural habits detected in a user's
// published posts. Enum fields hold one of the values in internal/parser's
// allowed sets.
type StyleInsights struct {
	PostLength    string     `json:"postLength"`
	EmojiUsage    string     `json:"emojiUsage"`
	Structure     string     `json:"structure"`
	CommonPhrases StringList `json:"commonPhrases,omitempty"`
}

// Value implements driver.Valuer.
func (s StyleInsights) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *StyleInsights) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StyleInsights", value)
	}

	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, s)
}

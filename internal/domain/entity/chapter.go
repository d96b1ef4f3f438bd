package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter 课程章节
type Chapter struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CourseID    string    `json:"-" gorm:"type:varchar(36);index;not null"`
	Position    int       `json:"position" gorm:"not null"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Content     string    `json:"content" gorm:"type:text"`
	Explanation string    `json:"explanation" gorm:"type:text"`
	CodeExample string    `json:"codeExample" gorm:"type:text"`
	References  []string  `json:"references" gorm:"column:reference_urls;type:jsonb;serializer:json"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// BeforeCreate 生成主键
func (ch *Chapter) BeforeCreate(*gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return nil
}

// NewChapter 创建只有标题的空章节
func NewChapter(courseID string, position int, title string) *Chapter {
	return &Chapter{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Position:   position,
		Title:      title,
		References: []string{},
	}
}

// ApplyContent 整体覆盖四个内容字段
func (ch *Chapter) ApplyContent(content, explanation, codeExample string, references []string) {
	ch.Content = content
	ch.Explanation = explanation
	ch.CodeExample = codeExample
	ch.References = append(make([]string, 0, len(references)), references...)
}

// HasContent 是否已生成或填写正文
func (ch *Chapter) HasContent() bool {
	return strings.TrimSpace(ch.Content) != ""
}

// Package entity 定义领域实体
package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Difficulty 课程难度
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvance      Difficulty = "Advance"
)

// 课程创建选项默认值
const (
	DefaultDifficulty      = DifficultyBeginner
	DefaultDuration        = "1 Hour"
	DefaultDesiredChapters = 5
)

// ParseDifficulty 解析难度（大小写不敏感），空字符串取默认值
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDifficulty, nil
	}
	for _, d := range []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvance} {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

// CourseOptions 课程创建选项
type CourseOptions struct {
	Difficulty      Difficulty
	Duration        string
	AddVideo        bool
	DesiredChapters int
}

// WithDefaults 补齐未设置的选项
func (o CourseOptions) WithDefaults() CourseOptions {
	if o.Difficulty == "" {
		o.Difficulty = DefaultDifficulty
	}
	if strings.TrimSpace(o.Duration) == "" {
		o.Duration = DefaultDuration
	}
	if o.DesiredChapters <= 0 {
		o.DesiredChapters = DefaultDesiredChapters
	}
	return o
}

// Course 课程聚合根，章节按 Position 排序
type Course struct {
	ID              string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	OwnerID         string     `json:"ownerId" gorm:"type:varchar(36);index;not null"`
	Title           string     `json:"title" gorm:"type:varchar(255);not null"`
	Topic           string     `json:"topic" gorm:"type:varchar(255);not null"`
	Description     string     `json:"description" gorm:"type:text"`
	Chapters        []*Chapter `json:"chapters" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	IsPublic        bool       `json:"isPublic" gorm:"index;not null"`
	ShareID         *string    `json:"shareId,omitempty" gorm:"type:varchar(64);uniqueIndex"`
	Difficulty      Difficulty `json:"difficulty" gorm:"type:varchar(32);not null"`
	Duration        string     `json:"duration" gorm:"type:varchar(64);not null"`
	AddVideo        bool       `json:"addVideo" gorm:"not null"`
	DesiredChapters int        `json:"desiredChapters" gorm:"not null"`
	CreatedAt       time.Time  `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Course) TableName() string {
	return "courses"
}

// BeforeCreate 生成主键
func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// NewCourse 创建新课程，选项缺省值在此补齐
func NewCourse(ownerID, title, topic string, opts CourseOptions) *Course {
	opts = opts.WithDefaults()
	now := time.Now()
	return &Course{
		OwnerID:         ownerID,
		Title:           title,
		Topic:           topic,
		Chapters:        []*Chapter{},
		Difficulty:      opts.Difficulty,
		Duration:        opts.Duration,
		AddVideo:        opts.AddVideo,
		DesiredChapters: opts.DesiredChapters,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyOutline 用大纲结果填充标题、描述与章节，只在创建时调用
func (c *Course) ApplyOutline(title, description string, chapterTitles []string) {
	if strings.TrimSpace(title) != "" {
		c.Title = title
	}
	c.Description = description
	c.Chapters = make([]*Chapter, 0, len(chapterTitles))
	for i, t := range chapterTitles {
		c.Chapters = append(c.Chapters, NewChapter(c.ID, i, t))
	}
}

// Options 返回创建选项快照
func (c *Course) Options() CourseOptions {
	return CourseOptions{
		Difficulty:      c.Difficulty,
		Duration:        c.Duration,
		AddVideo:        c.AddVideo,
		DesiredChapters: c.DesiredChapters,
	}
}

// Share 公开课程；已公开时保留原 shareId
func (c *Course) Share(token string) {
	if c.IsShared() {
		return
	}
	c.IsPublic = true
	c.ShareID = &token
}

// Unshare 取消公开，isPublic 与 shareId 同时清除
func (c *Course) Unshare() {
	c.IsPublic = false
	c.ShareID = nil
}

// IsShared 是否已公开
func (c *Course) IsShared() bool {
	return c.IsPublic && c.ShareID != nil && *c.ShareID != ""
}

// ChapterByID 按 ID 查找章节
func (c *Course) ChapterByID(id string) *Chapter {
	for _, ch := range c.Chapters {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// SortChapters 按 Position 排序章节
func (c *Course) SortChapters() {
	sort.SliceStable(c.Chapters, func(i, j int) bool {
		return c.Chapters[i].Position < c.Chapters[j].Position
	})
}

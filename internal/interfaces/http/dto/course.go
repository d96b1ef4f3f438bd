package dto

import (
	"time"

	"ai-course-builder-api/internal/application/course"
	"ai-course-builder-api/internal/domain/entity"
)

// CreateCourseRequest 生成课程请求
type CreateCourseRequest struct {
	Title           string `json:"title" binding:"max=255"`
	Topic           string `json:"topic" binding:"max=255"`
	Difficulty      string `json:"difficulty"`
	Duration        string `json:"duration" binding:"max=64"`
	AddVideo        bool   `json:"addVideo"`
	DesiredChapters int    `json:"desiredChapters" binding:"omitempty,min=1,max=50"`
}

// ToInput 转换为应用层参数
func (r *CreateCourseRequest) ToInput() (course.CreateInput, error) {
	difficulty, err := entity.ParseDifficulty(r.Difficulty)
	if err != nil {
		return course.CreateInput{}, err
	}
	return course.CreateInput{
		Title: r.Title,
		Topic: r.Topic,
		Options: entity.CourseOptions{
			Difficulty:      difficulty,
			Duration:        r.Duration,
			AddVideo:        r.AddVideo,
			DesiredChapters: r.DesiredChapters,
		},
	}, nil
}

// UpdateCourseRequest 编辑课程请求，省略的字段保持不变
type UpdateCourseRequest struct {
	Title           *string                `json:"title"`
	Topic           *string                `json:"topic"`
	Description     *string                `json:"description"`
	Difficulty      *string                `json:"difficulty"`
	Duration        *string                `json:"duration"`
	AddVideo        *bool                  `json:"addVideo"`
	DesiredChapters *int                   `json:"desiredChapters"`
	Chapters        []UpdateChapterRequest `json:"chapters" binding:"dive"`
}

// UpdateChapterRequest 按 ID 编辑章节
type UpdateChapterRequest struct {
	ID          string   `json:"id" binding:"required"`
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Explanation *string  `json:"explanation"`
	CodeExample *string  `json:"codeExample"`
	References  []string `json:"references"`
}

// ToInput 转换为应用层参数
func (r *UpdateCourseRequest) ToInput() course.UpdateInput {
	in := course.UpdateInput{
		Title:           r.Title,
		Topic:           r.Topic,
		Description:     r.Description,
		Difficulty:      r.Difficulty,
		Duration:        r.Duration,
		AddVideo:        r.AddVideo,
		DesiredChapters: r.DesiredChapters,
	}
	for _, ch := range r.Chapters {
		in.Chapters = append(in.Chapters, course.ChapterEdit{
			ID:          ch.ID,
			Title:       ch.Title,
			Content:     ch.Content,
			Explanation: ch.Explanation,
			CodeExample: ch.CodeExample,
			References:  ch.References,
		})
	}
	return in
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Explanation string   `json:"explanation"`
	CodeExample string   `json:"codeExample"`
	References  []string `json:"references"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"ownerId,omitempty"`
	Title           string             `json:"title"`
	Topic           string             `json:"topic"`
	Description     string             `json:"description"`
	Chapters        []*ChapterResponse `json:"chapters"`
	IsPublic        bool               `json:"isPublic"`
	ShareID         *string            `json:"shareId,omitempty"`
	Difficulty      string             `json:"difficulty"`
	Duration        string             `json:"duration"`
	AddVideo        bool               `json:"addVideo"`
	DesiredChapters int                `json:"desiredChapters"`
	CreatedAt       string             `json:"createdAt"`
	UpdatedAt       string             `json:"updatedAt"`
}

// ToChapterResponse 转换章节
func ToChapterResponse(ch *entity.Chapter) *ChapterResponse {
	refs := ch.References
	if refs == nil {
		refs = []string{}
	}
	return &ChapterResponse{
		ID:          ch.ID,
		Title:       ch.Title,
		Content:     ch.Content,
		Explanation: ch.Explanation,
		CodeExample: ch.CodeExample,
		References:  refs,
	}
}

// ToCourseResponse 转换课程
func ToCourseResponse(c *entity.Course) *CourseResponse {
	resp := &CourseResponse{
		ID:              c.ID,
		OwnerID:         c.OwnerID,
		Title:           c.Title,
		Topic:           c.Topic,
		Description:     c.Description,
		Chapters:        make([]*ChapterResponse, 0, len(c.Chapters)),
		IsPublic:        c.IsPublic,
		ShareID:         c.ShareID,
		Difficulty:      string(c.Difficulty),
		Duration:        c.Duration,
		AddVideo:        c.AddVideo,
		DesiredChapters: c.DesiredChapters,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
	for _, ch := range c.Chapters {
		resp.Chapters = append(resp.Chapters, ToChapterResponse(ch))
	}
	return resp
}

// ToPublicCourseResponse 匿名访问时隐藏所有者
func ToPublicCourseResponse(c *entity.Course) *CourseResponse {
	resp := ToCourseResponse(c)
	resp.OwnerID = ""
	return resp
}

// ToCourseListResponse 转换课程列表
func ToCourseListResponse(courses []*entity.Course) []*CourseResponse {
	out := make([]*CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, ToCourseResponse(c))
	}
	return out
}

// GenerationJobResponse 异步生成任务响应
type GenerationJobResponse struct {
	JobID    string `json:"job_id"`
	CourseID string `json:"course_id"`
	Status   string `json:"status"`
}

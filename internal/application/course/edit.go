package course

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	apperrors "ai-course-builder-api/pkg/errors"
)

// UpdateInput 课程编辑参数，nil 字段保持不变
type UpdateInput struct {
	Title           *string
	Topic           *string
	Description     *string
	Difficulty      *string
	Duration        *string
	AddVideo        *bool
	DesiredChapters *int
	Chapters        []ChapterEdit
}

// ChapterEdit 按 ID 编辑已有章节，References 为 nil 时保持不变
type ChapterEdit struct {
	ID          string
	Title       *string
	Content     *string
	Explanation *string
	CodeExample *string
	References  []string
}

// Update 编辑课程字段与已有章节，章节不能新增
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*entity.Course, error) {
	var course *entity.Course
	var previousShareID *string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := s.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}
		previousShareID = c.ShareID

		edited, err := applyUpdate(c, in)
		if err != nil {
			return err
		}
		if err := s.courses.Update(ctx, c); err != nil {
			return courseError(err)
		}
		for _, ch := range edited {
			if err := s.courses.UpdateChapterContent(ctx, ownerID, c.ID, ch); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.ErrChapterNotFound
				}
				return courseError(err)
			}
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previousShareID != nil {
		s.invalidateShareID(ctx, *previousShareID)
	}
	return course, nil
}

// applyUpdate 在内存中应用编辑并返回被修改的章节
func applyUpdate(c *entity.Course, in UpdateInput) ([]*entity.Chapter, error) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Topic != nil {
		c.Topic = strings.TrimSpace(*in.Topic)
	}
	if c.Title == "" || c.Topic == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title and topic must not be empty")
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Difficulty != nil {
		d, err := entity.ParseDifficulty(*in.Difficulty)
		if err != nil {
			return nil, apperrors.ErrInvalidParam.WithDetail(err.Error())
		}
		c.Difficulty = d
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.AddVideo != nil {
		c.AddVideo = *in.AddVideo
	}
	if in.DesiredChapters != nil {
		if *in.DesiredChapters < 1 {
			return nil, apperrors.ErrInvalidParam.WithDetail("desiredChapters must be at least 1")
		}
		c.DesiredChapters = *in.DesiredChapters
	}

	edited := make([]*entity.Chapter, 0, len(in.Chapters))
	for _, e := range in.Chapters {
		ch := c.ChapterByID(e.ID)
		if ch == nil {
			return nil, apperrors.ErrChapterNotFound.WithDetail(e.ID)
		}
		if e.Title != nil {
			ch.Title = *e.Title
		}
		if e.Content != nil {
			ch.Content = *e.Content
		}
		if e.Explanation != nil {
			ch.Explanation = *e.Explanation
		}
		if e.CodeExample != nil {
			ch.CodeExample = *e.CodeExample
		}
		if e.References != nil {
			ch.References = append([]string{}, e.References...)
		}
		edited = append(edited, ch)
	}
	return edited, nil
}

// Document 可通过 JSON Patch 编辑的课程文档
type Document struct {
	Title           string            `json:"title"`
	Topic           string            `json:"topic"`
	Description     string            `json:"description"`
	Difficulty      string            `json:"difficulty"`
	Duration        string            `json:"duration"`
	AddVideo        bool              `json:"addVideo"`
	DesiredChapters int               `json:"desiredChapters"`
	Chapters        []ChapterDocument `json:"chapters"`
}

// ChapterDocument 可编辑的章节文档
type ChapterDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Explanation string   `json:"explanation"`
	CodeExample string   `json:"codeExample"`
	References  []string `json:"references"`
}

// NewDocument 由课程构造可编辑文档
func NewDocument(c *entity.Course) *Document {
	doc := &Document{
		Title:           c.Title,
		Topic:           c.Topic,
		Description:     c.Description,
		Difficulty:      string(c.Difficulty),
		Duration:        c.Duration,
		AddVideo:        c.AddVideo,
		DesiredChapters: c.DesiredChapters,
		Chapters:        make([]ChapterDocument, 0, len(c.Chapters)),
	}
	for _, ch := range c.Chapters {
		refs := ch.References
		if refs == nil {
			refs = []string{}
		}
		doc.Chapters = append(doc.Chapters, ChapterDocument{
			ID:          ch.ID,
			Title:       ch.Title,
			Content:     ch.Content,
			Explanation: ch.Explanation,
			CodeExample: ch.CodeExample,
			References:  refs,
		})
	}
	return doc
}

// toUpdateInput 将修改后的文档转为整体编辑；章节必须与原课程一一对应
func (d *Document) toUpdateInput(original *entity.Course) (UpdateInput, error) {
	if len(d.Chapters) != len(original.Chapters) {
		return UpdateInput{}, apperrors.ErrInvalidPatch.WithDetail("chapters cannot be added or removed")
	}
	in := UpdateInput{
		Title:           &d.Title,
		Topic:           &d.Topic,
		Description:     &d.Description,
		Difficulty:      &d.Difficulty,
		Duration:        &d.Duration,
		AddVideo:        &d.AddVideo,
		DesiredChapters: &d.DesiredChapters,
		Chapters:        make([]ChapterEdit, 0, len(d.Chapters)),
	}
	for i := range d.Chapters {
		ch := &d.Chapters[i]
		if ch.ID != original.Chapters[i].ID {
			return UpdateInput{}, apperrors.ErrInvalidPatch.WithDetail("chapters cannot be reordered or re-identified")
		}
		refs := ch.References
		if refs == nil {
			refs = []string{}
		}
		in.Chapters = append(in.Chapters, ChapterEdit{
			ID:          ch.ID,
			Title:       &ch.Title,
			Content:     &ch.Content,
			Explanation: &ch.Explanation,
			CodeExample: &ch.CodeExample,
			References:  refs,
		})
	}
	return in, nil
}

// Patch 以 RFC 6902 JSON Patch 编辑课程文档
func (s *Service) Patch(ctx context.Context, ownerID, id string, patch []byte) (*entity.Course, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, apperrors.ErrInvalidPatch.WithError(err)
	}

	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	base, err := json.Marshal(NewDocument(course))
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	out, err := p.Apply(base)
	if err != nil {
		return nil, apperrors.ErrInvalidPatch.WithError(err)
	}

	var doc Document
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, apperrors.ErrInvalidPatch.WithError(err)
	}
	in, err := doc.toUpdateInput(course)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, ownerID, id, in)
}

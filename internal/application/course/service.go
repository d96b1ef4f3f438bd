// Package course 编排课程的创建、编辑、章节生成与分享
package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	"ai-course-builder-api/internal/infrastructure/messaging"
	apperrors "ai-course-builder-api/pkg/errors"
)

// 默认配置
const (
	DefaultMaxParallelChapters = 4
	DefaultShareTTL            = 10 * time.Minute
)

var timeNow = time.Now

// OutlineGenerator 课程大纲生成器，必须总是返回可用结果
type OutlineGenerator interface {
	Generate(ctx context.Context, title, topic string, opts generation.GenerationOptions) *generation.CourseOutline
}

// ChapterGenerator 单章内容生成器，必须总是返回可用结果
type ChapterGenerator interface {
	Generate(ctx context.Context, chapterTitle, topic string) *generation.ChapterContent
}

// ShareCache 公开课程读缓存
type ShareCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// JobPublisher 异步生成任务发布者
type JobPublisher interface {
	PublishGenerateAllChapters(ctx context.Context, job *messaging.GenerateAllChaptersJob) (string, error)
}

// Config 服务配置
type Config struct {
	MaxParallelChapters int
	ShareTTL            time.Duration
}

// Service 课程应用服务
type Service struct {
	courses  repository.CourseRepository
	tx       repository.Transactor
	outlines OutlineGenerator
	chapters ChapterGenerator
	cache    ShareCache
	jobs     JobPublisher
	cfg      Config
}

// NewService 创建课程服务；cache 与 jobs 可以为 nil
func NewService(
	courses repository.CourseRepository,
	tx repository.Transactor,
	outlines OutlineGenerator,
	chapters ChapterGenerator,
	cache ShareCache,
	jobs JobPublisher,
	cfg Config,
) *Service {
	if cfg.MaxParallelChapters <= 0 {
		cfg.MaxParallelChapters = DefaultMaxParallelChapters
	}
	if cfg.ShareTTL <= 0 {
		cfg.ShareTTL = DefaultShareTTL
	}
	return &Service{
		courses:  courses,
		tx:       tx,
		outlines: outlines,
		chapters: chapters,
		cache:    cache,
		jobs:     jobs,
		cfg:      cfg,
	}
}

// CreateInput 创建课程参数
type CreateInput struct {
	Title   string
	Topic   string
	Options entity.CourseOptions
}

// Create 生成大纲并创建课程
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*entity.Course, error) {
	title := strings.TrimSpace(in.Title)
	topic := strings.TrimSpace(in.Topic)
	if title == "" || topic == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title and topic required")
	}

	course := entity.NewCourse(ownerID, title, topic, in.Options)
	outline := s.outlines.Generate(ctx, title, topic, toGenerationOptions(course.Options()))
	course.ApplyOutline(outline.Title, outline.Description, outline.ChapterTitles())

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create course")
	}
	return course, nil
}

// List 分页获取用户课程
func (s *Service) List(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Course], error) {
	result, err := s.courses.ListByOwner(ctx, ownerID, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list courses")
	}
	return result, nil
}

// Get 获取课程
func (s *Service) Get(ctx context.Context, ownerID, id string) (*entity.Course, error) {
	course, err := s.courses.GetByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, courseError(err)
	}
	return course, nil
}

// Delete 删除课程及其章节
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, ownerID, id); err != nil {
		return courseError(err)
	}
	s.invalidateShare(ctx, course)
	return nil
}

// courseError 将仓储错误转换为应用错误
func courseError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrCourseNotFound
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, "course store failure")
}

func toGenerationOptions(o entity.CourseOptions) generation.GenerationOptions {
	return generation.GenerationOptions{
		Difficulty:      string(o.Difficulty),
		Duration:        o.Duration,
		AddVideo:        o.AddVideo,
		DesiredChapters: o.DesiredChapters,
	}
}

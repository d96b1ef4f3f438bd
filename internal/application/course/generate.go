package course

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	"ai-course-builder-api/internal/infrastructure/messaging"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/logger"
)

// GenerateChapter 为单个章节生成内容并整体覆盖
func (s *Service) GenerateChapter(ctx context.Context, ownerID, courseID, chapterID string) (*entity.Chapter, error) {
	course, err := s.Get(ctx, ownerID, courseID)
	if err != nil {
		return nil, err
	}
	chapter := course.ChapterByID(chapterID)
	if chapter == nil {
		return nil, apperrors.ErrChapterNotFound
	}

	applyContent(chapter, s.chapters.Generate(ctx, chapter.Title, course.Topic))
	if err := s.courses.UpdateChapterContent(ctx, ownerID, course.ID, chapter); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrChapterNotFound
		}
		return nil, courseError(err)
	}

	s.invalidateShare(ctx, course)
	return chapter, nil
}

// GenerateAllChapters 并发生成全部章节内容，生成完成后在一个事务中写回
func (s *Service) GenerateAllChapters(ctx context.Context, ownerID, courseID string) (*entity.Course, error) {
	course, err := s.Get(ctx, ownerID, courseID)
	if err != nil {
		return nil, err
	}

	results := make([]*generation.ChapterContent, len(course.Chapters))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallelChapters)
	for i, ch := range course.Chapters {
		g.Go(func() error {
			results[i] = s.chapters.Generate(ctx, ch.Title, course.Topic)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info(ctx, "chapters generated",
		"course_id", course.ID,
		"chapters", len(course.Chapters),
	)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i, ch := range course.Chapters {
			applyContent(ch, results[i])
			if err := s.courses.UpdateChapterContent(ctx, ownerID, course.ID, ch); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.ErrChapterNotFound
				}
				return courseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateShare(ctx, course)
	return course, nil
}

// EnqueueGenerateAll 发布异步批量生成任务，返回任务 ID
func (s *Service) EnqueueGenerateAll(ctx context.Context, ownerID, courseID string) (string, error) {
	if s.jobs == nil {
		return "", apperrors.ErrServiceUnavailable.WithDetail("job queue not configured")
	}
	if _, err := s.Get(ctx, ownerID, courseID); err != nil {
		return "", err
	}

	job := &messaging.GenerateAllChaptersJob{
		JobID:       uuid.NewString(),
		UserID:      ownerID,
		CourseID:    courseID,
		RequestedAt: timeNow().Unix(),
	}
	if _, err := s.jobs.PublishGenerateAllChapters(ctx, job); err != nil {
		return "", apperrors.ErrEnqueueFailed.WithError(err)
	}

	logger.Info(ctx, "generation job enqueued", "job_id", job.JobID, "course_id", courseID)
	return job.JobID, nil
}

// HandleGenerateAllJob 消费批量生成任务
func (s *Service) HandleGenerateAllJob(ctx context.Context, msg *messaging.Message) error {
	var job messaging.GenerateAllChaptersJob
	if err := msg.UnmarshalPayload(&job); err != nil {
		return err
	}
	_, err := s.GenerateAllChapters(ctx, job.UserID, job.CourseID)
	if errors.Is(err, apperrors.ErrCourseNotFound) {
		logger.Warn(ctx, "course removed before job ran", "course_id", job.CourseID)
		return nil
	}
	return err
}

func applyContent(ch *entity.Chapter, content *generation.ChapterContent) {
	ch.ApplyContent(content.Content, content.Explanation, content.CodeExample, content.References)
}

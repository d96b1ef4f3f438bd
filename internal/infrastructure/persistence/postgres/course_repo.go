package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
)

// courseColumns Update 允许写入的课程级字段
var courseColumns = []string{
	"title", "topic", "description",
	"is_public", "share_id",
	"difficulty", "duration", "add_video", "desired_chapters",
	"updated_at",
}

// chapterColumns UpdateChapterContent 整体覆盖的章节字段
var chapterColumns = []string{
	"title", "content", "explanation", "code_example", "reference_urls", "updated_at",
}

// CourseRepository 课程仓储实现
type CourseRepository struct {
	client *Client
}

var _ repository.CourseRepository = (*CourseRepository)(nil)

// NewCourseRepository 创建课程仓储
func NewCourseRepository(client *Client) *CourseRepository {
	return &CourseRepository{client: client}
}

func preloadChapters(db *gorm.DB) *gorm.DB {
	return db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create 创建课程及其章节
func (r *CourseRepository) Create(ctx context.Context, course *entity.Course) error {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.Create")
	defer span.End()

	err := r.client.inTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create course: %w", err)
	}
	span.SetAttributes(attribute.String("course.id", course.ID), attribute.Int("course.chapters", len(course.Chapters)))
	return nil
}

// GetByIDForOwner 获取课程
func (r *CourseRepository) GetByIDForOwner(ctx context.Context, ownerID, id string) (*entity.Course, error) {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.GetByIDForOwner")
	defer span.End()

	var course entity.Course
	err := preloadChapters(r.client.getDB(ctx)).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&course).Error
	if err != nil {
		return nil, translateNotFound(span, err, "failed to get course")
	}
	return &course, nil
}

// GetByShareID 按分享令牌获取公开课程
func (r *CourseRepository) GetByShareID(ctx context.Context, shareID string) (*entity.Course, error) {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.GetByShareID")
	defer span.End()

	var course entity.Course
	err := preloadChapters(r.client.getDB(ctx)).
		Where("share_id = ? AND is_public = ?", shareID, true).
		First(&course).Error
	if err != nil {
		return nil, translateNotFound(span, err, "failed to get shared course")
	}
	return &course, nil
}

// ListByOwner 分页获取用户课程
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Course], error) {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.ListByOwner")
	defer span.End()

	db := r.client.getDB(ctx).Model(&entity.Course{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	courses := make([]*entity.Course, 0, pagination.Limit())
	err := preloadChapters(r.client.getDB(ctx)).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&courses).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return repository.NewPagedResult(courses, total, pagination), nil
}

// Update 更新课程级字段
func (r *CourseRepository) Update(ctx context.Context, course *entity.Course) error {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.Update")
	defer span.End()

	course.UpdatedAt = time.Now()
	res := r.client.getDB(ctx).
		Model(&entity.Course{}).
		Where("id = ? AND owner_id = ?", course.ID, course.OwnerID).
		Select(courseColumns).
		Updates(course)
	if res.Error != nil {
		span.RecordError(res.Error)
		return fmt.Errorf("failed to update course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete 删除课程及其章节
func (r *CourseRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.Delete")
	defer span.End()

	err := r.client.inTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&entity.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Where("course_id = ?", id).Delete(&entity.Chapter{}).Error
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return err
}

// UpdateChapterContent 整体覆盖章节标题与内容
func (r *CourseRepository) UpdateChapterContent(ctx context.Context, ownerID, courseID string, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.CourseRepository.UpdateChapterContent")
	defer span.End()

	if chapter.References == nil {
		chapter.References = []string{}
	}
	chapter.UpdatedAt = time.Now()

	db := r.client.getDB(ctx)
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.Course{}).
		Select("id").
		Where("id = ? AND owner_id = ?", courseID, ownerID)

	res := db.Model(&entity.Chapter{}).
		Where("id = ? AND course_id = ? AND course_id IN (?)", chapter.ID, courseID, owned).
		Select(chapterColumns).
		Updates(chapter)
	if res.Error != nil {
		span.RecordError(res.Error)
		return fmt.Errorf("failed to update chapter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

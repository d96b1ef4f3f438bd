package repository

import (
	"context"

	"ai-course-builder-api/internal/domain/entity"
)

// CourseRepository 课程仓储接口，除 GetByShareID 外所有操作按 ownerID 隔离
type CourseRepository interface {
	// Create 创建课程及其章节（原子）
	Create(ctx context.Context, course *entity.Course) error

	// GetByIDForOwner 获取课程（含章节），不属于该用户时视为不存在
	GetByIDForOwner(ctx context.Context, ownerID, id string) (*entity.Course, error)

	// GetByShareID 按分享令牌获取公开课程
	GetByShareID(ctx context.Context, shareID string) (*entity.Course, error)

	// ListByOwner 分页获取用户课程，按创建时间倒序
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.Course], error)

	// Update 更新课程级字段（不含章节）
	Update(ctx context.Context, course *entity.Course) error

	// Delete 删除课程及其章节
	Delete(ctx context.Context, ownerID, id string) error

	// UpdateChapterContent 整体覆盖章节标题与内容字段
	UpdateChapterContent(ctx context.Context, ownerID, courseID string, chapter *entity.Chapter) error
}

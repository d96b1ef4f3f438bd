package course

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	rediscache "ai-course-builder-api/internal/infrastructure/persistence/redis"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/logger"
)

// Share 公开课程；已公开时保持原 shareId
func (s *Service) Share(ctx context.Context, ownerID, id string) (*entity.Course, error) {
	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if course.IsShared() {
		return course, nil
	}

	course.Share(uuid.NewString())
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, courseError(err)
	}
	s.invalidateShare(ctx, course)
	return course, nil
}

// Unshare 取消公开
func (s *Service) Unshare(ctx context.Context, ownerID, id string) (*entity.Course, error) {
	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	previous := course.ShareID

	course.Unshare()
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, courseError(err)
	}
	if previous != nil {
		s.invalidateShareID(ctx, *previous)
	}
	return course, nil
}

// GetShared 匿名读取公开课程，经 Redis 读缓存
func (s *Service) GetShared(ctx context.Context, shareID string) (*entity.Course, error) {
	if shareID == "" {
		return nil, apperrors.ErrShareNotFound
	}
	if s.cache == nil {
		return s.loadShared(ctx, shareID)
	}

	data, err := s.cache.GetOrLoad(ctx, rediscache.ShareKey(shareID), s.cfg.ShareTTL, func(ctx context.Context) (any, error) {
		return s.loadShared(ctx, shareID)
	})
	if err != nil {
		return nil, err
	}

	var course entity.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	return &course, nil
}

func (s *Service) loadShared(ctx context.Context, shareID string) (*entity.Course, error) {
	course, err := s.courses.GetByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrShareNotFound
		}
		return nil, courseError(err)
	}
	return course, nil
}

// invalidateShare 课程变更后清除其公开缓存
func (s *Service) invalidateShare(ctx context.Context, c *entity.Course) {
	if c.ShareID != nil {
		s.invalidateShareID(ctx, *c.ShareID)
	}
}

func (s *Service) invalidateShareID(ctx context.Context, shareID string) {
	if s.cache == nil || shareID == "" {
		return
	}
	if err := s.cache.Delete(ctx, rediscache.ShareKey(shareID)); err != nil {
		logger.Warn(ctx, "failed to invalidate share cache", "error", err, "share_id", shareID)
	}
}

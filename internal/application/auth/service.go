// Package auth 提供注册、登录与当前用户查询
package auth

import (
	"context"
	"errors"
	"strings"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/logger"
	"ai-course-builder-api/pkg/utils"
)

// Credentials 注册与登录参数
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// Result 认证结果
type Result struct {
	Token     string
	ExpiresIn int64
	User      *entity.User
}

// Service 认证服务
type Service struct {
	users repository.UserRepository
	jwt   *utils.JWTManager
}

// NewService 创建认证服务
func NewService(users repository.UserRepository, jwt *utils.JWTManager) *Service {
	return &Service{users: users, jwt: jwt}
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return apperrors.ErrInvalidParam.WithDetail("email and password required")
	}
	return nil
}

// Register 注册新用户并签发令牌
func (s *Service) Register(ctx context.Context, in Credentials) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	email := entity.NormalizeEmail(in.Email)
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to check email")
	}

	user := entity.NewUser(email, strings.TrimSpace(in.Name))
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrUserExists
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create user")
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login 校验邮箱密码并签发令牌
func (s *Service) Login(ctx context.Context, in Credentials) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}
	if !user.CheckPassword(in.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Me 获取令牌对应的用户
func (s *Service) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}
	return user, nil
}

func (s *Service) issue(user *entity.User) (*Result, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	return &Result{
		Token:     token,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
		User:      user,
	}, nil
}

package dto

import (
	"ai-course-builder-api/internal/application/auth"
	"ai-course-builder-api/internal/domain/entity"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"max=72"`
	Name     string `json:"name" binding:"max=128"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO 用户信息
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"` // 秒
	User      *UserDTO `json:"user"`
}

// ToUserDTO 将领域实体转换为 DTO
func ToUserDTO(u *entity.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

// ToAuthResponse 转换认证结果
func ToAuthResponse(r *auth.Result) *AuthResponse {
	return &AuthResponse{
		Token:     r.Token,
		ExpiresIn: r.ExpiresIn,
		User:      ToUserDTO(r.User),
	}
}

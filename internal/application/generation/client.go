// Package generation 实现课程大纲与章节内容的生成管线：
// 提示词构建 -> 有界重试调用模型 -> 类型化解析 -> 失败时降级为确定性占位内容。
// 对调用方而言生成永远成功，内容质量可以降级，可用性不降级。
package generation

import (
	"context"
	"errors"
	"fmt"
)

// ResponseFormat 期望的模型输出格式
type ResponseFormat string

const (
	ResponseFormatJSON ResponseFormat = "json"
	ResponseFormatText ResponseFormat = "text"
)

// Request 单次模型调用的载荷
type Request struct {
	System string
	Prompt string
	Format ResponseFormat
}

// Client 生成模型客户端（port），由基础设施层提供实现。
// 每次调用只负责一次外部请求，不做重试、不保留状态。
type Client interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// ErrProviderUnavailable 未配置模型凭据。生成器据此直接走占位路径，不视为故障。
var ErrProviderUnavailable = errors.New("generation provider not configured")

// ProviderError 外部调用失败（网络、配额、传输层响应异常等），可重试
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generation provider call failed: %v", e.Err)
	}
	return fmt.Sprintf("generation provider %s call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError 包装一次失败的外部调用
func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}

// ShapeError 调用成功但返回内容无法通过结构校验，不重试
type ShapeError struct {
	Kind string
	Err  error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected response shape: %v", e.Kind, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// IsShapeError 判断是否为结构校验错误
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// NopClient 未配置模型时注入的空实现，永远返回 ErrProviderUnavailable，不发起任何调用
type NopClient struct{}

func (NopClient) Generate(context.Context, *Request) (string, error) {
	return "", ErrProviderUnavailable
}

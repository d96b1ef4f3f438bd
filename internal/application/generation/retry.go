package generation

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 300 * time.Millisecond
)

// Policy 有界重试策略
type Policy struct {
	// MaxAttempts 最大尝试次数（含首次）
	MaxAttempts int
	// Backoff 第 attempt 次失败后、下一次尝试前的等待时间
	Backoff func(attempt int) time.Duration
	// Retryable 判断错误是否值得重试
	Retryable func(err error) bool
	// Sleep 等待实现，测试可替换
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy 3 次尝试，线性退避 300ms * attempt
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     LinearBackoff(DefaultBackoffBase),
		Retryable:   IsRetryable,
		Sleep:       SleepContext,
	}
}

// LinearBackoff 返回 base * attempt 的退避函数
func LinearBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base * time.Duration(attempt)
	}
}

// IsRetryable 只有外部调用失败才重试；未配置、结构错误、调用方取消都立即停止
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrProviderUnavailable):
		return false
	case IsShapeError(err):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

// SleepContext 等待 d，ctx 结束时提前返回
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Backoff == nil {
		p.Backoff = func(int) time.Duration { return 0 }
	}
	if p.Retryable == nil {
		p.Retryable = IsRetryable
	}
	if p.Sleep == nil {
		p.Sleep = SleepContext
	}
	return p
}

// Retry 按策略执行 op，返回首个成功结果或最后一次错误。
// attempt 从 1 开始计数；最后一次失败不再等待。
func Retry[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	p = p.normalized()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		v, err := op(ctx, attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts || !p.Retryable(err) {
			break
		}
		if sleepErr := p.Sleep(ctx, p.Backoff(attempt)); sleepErr != nil {
			break
		}
	}
	return zero, lastErr
}

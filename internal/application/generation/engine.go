package generation

import (
	"context"
	"errors"
	"time"

	wfprompt "ai-course-builder-api/internal/workflow/prompt"
	"ai-course-builder-api/pkg/logger"
	"ai-course-builder-api/pkg/metrics"
	"ai-course-builder-api/pkg/tracer"

	"go.opentelemetry.io/otel/attribute"
)

// Option 生成器可选配置
type Option func(*engine)

// WithPolicy 替换默认重试策略
func WithPolicy(p Policy) Option {
	return func(e *engine) {
		e.policy = p
	}
}

// WithPromptRegistry 替换默认提示词注册表
func WithPromptRegistry(r *wfprompt.Registry) Option {
	return func(e *engine) {
		if r != nil {
			e.prompts = r
		}
	}
}

// engine 大纲与章节生成共用的调用管线
type engine struct {
	client  Client
	prompts *wfprompt.Registry
	policy  Policy
}

func newEngine(client Client, opts ...Option) *engine {
	if client == nil {
		client = NopClient{}
	}
	e := &engine{
		client:  client,
		prompts: wfprompt.Default(),
		policy:  DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// task 一次生成任务的描述
type task[T any] struct {
	kind     string
	promptID wfprompt.PromptID
	vars     map[string]any
	decode   func(raw string) (T, error)
	// fallback 按降级原因给出确定性结果
	fallback func(reason string) T
}

// run 渲染提示词 -> 有界重试调用 -> 类型化解析，任何失败都转为 fallback，不向调用方返回错误
func run[T any](ctx context.Context, e *engine, t task[T]) T {
	ctx, span := tracer.Start(ctx, "generation."+t.kind)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.GenerationDuration.WithLabelValues(t.kind).Observe(time.Since(start).Seconds())
	}()

	system, user, err := e.prompts.Render(ctx, t.promptID, t.vars)
	if err != nil {
		logger.Error(ctx, "failed to render generation prompt", err, "kind", t.kind, "prompt_id", string(t.promptID))
		tracer.RecordError(span, err)
		return degrade(ctx, t, reasonProviderError)
	}

	req := &Request{System: system, Prompt: user, Format: ResponseFormatJSON}
	raw, err := Retry(ctx, e.policy, func(ctx context.Context, attempt int) (string, error) {
		out, callErr := e.client.Generate(ctx, req)
		if callErr == nil {
			metrics.GenerationAttemptsTotal.WithLabelValues(t.kind, "success").Inc()
			return out, nil
		}
		if errors.Is(callErr, ErrProviderUnavailable) {
			return "", callErr
		}
		metrics.GenerationAttemptsTotal.WithLabelValues(t.kind, "error").Inc()
		logger.Warn(ctx, "generation attempt failed",
			"kind", t.kind,
			"attempt", attempt,
			"max_attempts", e.policy.MaxAttempts,
			"error", callErr.Error(),
		)
		return "", callErr
	})
	span.SetAttributes(attribute.String("generation.kind", t.kind))

	if errors.Is(err, ErrProviderUnavailable) {
		logger.Debug(ctx, "no generation provider configured, serving placeholder", "kind", t.kind)
		return degrade(ctx, t, reasonNoProvider)
	}
	if err != nil {
		logger.Error(ctx, "generation failed after retries, serving fallback", err, "kind", t.kind)
		tracer.RecordError(span, err)
		return degrade(ctx, t, reasonProviderError)
	}

	out, err := t.decode(raw)
	if err != nil {
		logger.Error(ctx, "generation returned unusable content, serving fallback", err, "kind", t.kind)
		tracer.RecordError(span, err)
		return degrade(ctx, t, reasonShapeError)
	}
	span.SetAttributes(attribute.Bool("generation.fallback", false))
	return out
}

func degrade[T any](ctx context.Context, t task[T], reason string) T {
	metrics.GenerationFallbackTotal.WithLabelValues(t.kind, reason).Inc()
	tracer.SpanFromContext(ctx).SetAttributes(
		attribute.Bool("generation.fallback", true),
		attribute.String("generation.fallback_reason", reason),
	)
	return t.fallback(reason)
}

package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-course-builder-api/internal/application/generation"
	wfnode "ai-course-builder-api/internal/workflow/node"
	"ai-course-builder-api/pkg/logger"
	"ai-course-builder-api/pkg/metrics"
	"ai-course-builder-api/pkg/tracer"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errEmptyCompletion = errors.New("empty completion")

// EinoClient 基于 Eino ChatModel 的生成客户端，每次 Generate 只发起一次模型调用
// （response_format 不被支持时的降级重发除外）
type EinoClient struct {
	provider  string
	modelName string
	chatModel model.BaseChatModel
}

var _ generation.Client = (*EinoClient)(nil)

// NewEinoClient 创建生成客户端
func NewEinoClient(provider, modelName string, chatModel model.BaseChatModel) *EinoClient {
	return &EinoClient{
		provider:  provider,
		modelName: modelName,
		chatModel: chatModel,
	}
}

// Generate 发起一次补全调用，返回原始文本；任何调用失败都包装为 ProviderError
func (c *EinoClient) Generate(ctx context.Context, req *generation.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.modelName),
	)

	msgs := buildMessages(req)
	jsonMode := req != nil && req.Format == generation.ResponseFormatJSON

	start := time.Now()
	out, err := c.chatModel.Generate(ctx, msgs, c.options(jsonMode)...)
	if err != nil && jsonMode && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm json mode not supported, fallback to prompt-only",
			"provider", c.provider,
			"model", c.modelName,
			"error", err.Error(),
		)
		out, err = c.chatModel.Generate(ctx, msgs, c.options(false)...)
	}
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.modelName).Observe(time.Since(start).Seconds())

	if err == nil && (out == nil || strings.TrimSpace(out.Content) == "") {
		err = errEmptyCompletion
	}
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "error").Inc()
		tracer.RecordError(span, err)
		return "", generation.NewProviderError(c.provider, err)
	}

	metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "success").Inc()
	c.recordUsage(out, span)
	return out.Content, nil
}

func (c *EinoClient) options(jsonMode bool) []model.Option {
	opts := make([]model.Option, 0, 2)
	if c.modelName != "" {
		opts = append(opts, model.WithModel(c.modelName))
	}
	if jsonMode {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}
	return opts
}

func (c *EinoClient) recordUsage(out *schema.Message, span trace.Span) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	metrics.LLMTokensUsed.WithLabelValues(c.provider, c.modelName, "prompt").Add(float64(usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.provider, c.modelName, "completion").Add(float64(usage.CompletionTokens))
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", usage.PromptTokens),
		attribute.Int("llm.completion_tokens", usage.CompletionTokens),
	)
}

func buildMessages(req *generation.Request) []*schema.Message {
	if req == nil {
		return []*schema.Message{schema.UserMessage("")}
	}
	msgs := make([]*schema.Message, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, schema.SystemMessage(req.System))
	}
	msgs = append(msgs, schema.UserMessage(req.Prompt))
	return msgs
}

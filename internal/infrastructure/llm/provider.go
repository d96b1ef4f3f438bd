package llm

import (
	"context"

	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/config"
	"ai-course-builder-api/pkg/logger"
)

// NewGenerationClient 进程启动时根据配置选择一次生成客户端：
// 未配置默认提供商或缺少 api_key 时返回 NopClient（占位模式），否则返回 EinoClient
func NewGenerationClient(ctx context.Context, factory *EinoFactory, cfg config.LLMConfig) (generation.Client, error) {
	name, providerCfg, ok := cfg.ActiveProvider()
	if !ok {
		logger.Warn(ctx, "no llm provider credentials configured, generation runs in placeholder mode",
			"default_provider", name,
		)
		return generation.NopClient{}, nil
	}

	chatModel, err := factory.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "llm provider configured", "provider", name, "model", providerCfg.Model)
	return NewEinoClient(name, providerCfg.Model, chatModel), nil
}

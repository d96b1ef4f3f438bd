// Package llm 提供基于 Eino 的模型客户端
package llm

import (
	"context"
	"fmt"
	"sync"

	"ai-course-builder-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// ChatModelBuilder 按提供商配置构建 ChatModel
type ChatModelBuilder func(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config config.LLMConfig
	build  ChatModelBuilder
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg config.LLMConfig) *EinoFactory {
	return NewEinoFactoryWithBuilder(cfg, newOpenAIChatModel)
}

// NewEinoFactoryWithBuilder 使用自定义构建函数创建工厂
func NewEinoFactoryWithBuilder(cfg config.LLMConfig, build ChatModelBuilder) *EinoFactory {
	if build == nil {
		build = newOpenAIChatModel
	}
	return &EinoFactory{
		config: cfg,
		build:  build,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	chatModel, err := f.build(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// newOpenAIChatModel 使用 Eino 的 OpenAI 适配器，兼容 OpenAI 协议的提供商（含 Gemini 兼容端点）共用
func newOpenAIChatModel(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	mc := &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: ptrFloat32(float32(cfg.Temperature)),
		Timeout:     cfg.Timeout,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		mc.MaxTokens = &maxTokens
	}
	return openai.NewChatModel(ctx, mc)
}

func ptrFloat32(f float32) *float32 {
	return &f
}

package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/config"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatModel 按顺序返回预设结果
type fakeChatModel struct {
	mu      sync.Mutex
	outs    []*schema.Message
	errs    []error
	inputs  [][]*schema.Message
	optLens []int
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.inputs)
	m.inputs = append(m.inputs, input)
	m.optLens = append(m.optLens, len(opts))

	var out *schema.Message
	var err error
	if i < len(m.outs) {
		out = m.outs[i]
	}
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return out, err
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestEinoClientGenerate(t *testing.T) {
	fake := &fakeChatModel{outs: []*schema.Message{{
		Role:    schema.Assistant,
		Content: `{"title":"T"}`,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5},
		},
	}}}
	c := NewEinoClient("openai", "gpt-4o-mini", fake)

	out, err := c.Generate(context.Background(), &generation.Request{
		System: "sys",
		Prompt: "user",
		Format: generation.ResponseFormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, out)

	require.Len(t, fake.inputs, 1)
	require.Len(t, fake.inputs[0], 2)
	assert.Equal(t, schema.System, fake.inputs[0][0].Role)
	assert.Equal(t, "user", fake.inputs[0][1].Content)
	// model + response_format
	assert.Equal(t, 2, fake.optLens[0])
}

func TestEinoClientRetriesWithoutResponseFormat(t *testing.T) {
	fake := &fakeChatModel{
		errs: []error{errors.New("400: Unknown parameter: response_format"), nil},
		outs: []*schema.Message{nil, {Role: schema.Assistant, Content: "{}"}},
	}
	c := NewEinoClient("gemini", "", fake)

	out, err := c.Generate(context.Background(), &generation.Request{Prompt: "p", Format: generation.ResponseFormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	require.Len(t, fake.inputs, 2)
	assert.Equal(t, 1, fake.optLens[0])
	assert.Equal(t, 0, fake.optLens[1])
	// 无 system 时只发送 user 消息
	assert.Len(t, fake.inputs[0], 1)
}

func TestEinoClientWrapsFailures(t *testing.T) {
	cause := errors.New("connection reset")
	c := NewEinoClient("openai", "m", &fakeChatModel{errs: []error{cause}})

	_, err := c.Generate(context.Background(), &generation.Request{Prompt: "p", Format: generation.ResponseFormatText})
	var pe *generation.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "openai", pe.Provider)
	assert.ErrorIs(t, err, cause)
	assert.True(t, generation.IsRetryable(err))
}

func TestEinoClientEmptyCompletionIsProviderError(t *testing.T) {
	c := NewEinoClient("openai", "m", &fakeChatModel{outs: []*schema.Message{{Role: schema.Assistant, Content: "  "}}})

	_, err := c.Generate(context.Background(), &generation.Request{Prompt: "p"})
	var pe *generation.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, errEmptyCompletion)
}

func TestNewGenerationClientSelection(t *testing.T) {
	fake := &fakeChatModel{}
	builds := 0
	builder := func(context.Context, config.ProviderConfig) (model.BaseChatModel, error) {
		builds++
		return fake, nil
	}

	t.Run("no credentials", func(t *testing.T) {
		cfg := config.LLMConfig{
			DefaultProvider: "openai",
			Providers:       map[string]config.ProviderConfig{"openai": {Model: "m"}},
		}
		c, err := NewGenerationClient(context.Background(), NewEinoFactoryWithBuilder(cfg, builder), cfg)
		require.NoError(t, err)
		assert.IsType(t, generation.NopClient{}, c)
		assert.Equal(t, 0, builds)
	})

	t.Run("configured", func(t *testing.T) {
		cfg := config.LLMConfig{
			DefaultProvider: "openai",
			Providers:       map[string]config.ProviderConfig{"openai": {APIKey: "sk", Model: "m"}},
		}
		factory := NewEinoFactoryWithBuilder(cfg, builder)
		c, err := NewGenerationClient(context.Background(), factory, cfg)
		require.NoError(t, err)
		assert.IsType(t, &EinoClient{}, c)

		// 工厂缓存已构建的模型
		_, err = factory.Default(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, builds)
	})
}

func TestEinoFactoryUnknownProvider(t *testing.T) {
	f := NewEinoFactoryWithBuilder(config.LLMConfig{}, nil)
	_, err := f.Get(context.Background(), "missing")
	assert.Error(t, err)
}

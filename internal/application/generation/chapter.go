package generation

import (
	"context"

	wfprompt "ai-course-builder-api/internal/workflow/prompt"
)

// ChapterContentGenerator 单章内容生成器
type ChapterContentGenerator struct {
	engine *engine
}

// NewChapterContentGenerator 创建章节内容生成器
func NewChapterContentGenerator(client Client, opts ...Option) *ChapterContentGenerator {
	return &ChapterContentGenerator{engine: newEngine(client, opts...)}
}

// Generate 生成单章内容，永远返回可用结果。
// 未配置模型、调用失败、输出不合法都返回同一份占位内容。
func (g *ChapterContentGenerator) Generate(ctx context.Context, chapterTitle, topic string) *ChapterContent {
	return run(ctx, g.engine, task[*ChapterContent]{
		kind:     kindChapter,
		promptID: wfprompt.PromptChapterContentV1,
		vars: map[string]any{
			"topic":         topic,
			"chapter_title": chapterTitle,
		},
		decode: decodeChapterContent,
		fallback: func(string) *ChapterContent {
			return placeholderChapter(chapterTitle, topic)
		},
	})
}

package generation

import (
	"context"
	"strconv"

	wfprompt "ai-course-builder-api/internal/workflow/prompt"
)

// OutlineGenerator 课程大纲生成器
type OutlineGenerator struct {
	engine *engine
}

// NewOutlineGenerator 创建大纲生成器，client 为 nil 时等价于未配置模型
func NewOutlineGenerator(client Client, opts ...Option) *OutlineGenerator {
	return &OutlineGenerator{engine: newEngine(client, opts...)}
}

// Generate 生成课程大纲，永远返回可用结果。
// 未配置模型返回 3 章占位大纲；调用或解析失败返回 2 章兜底大纲；
// 成功时原样返回模型给出的标题、描述与章节。
func (g *OutlineGenerator) Generate(ctx context.Context, title, topic string, opts GenerationOptions) *CourseOutline {
	return run(ctx, g.engine, task[*CourseOutline]{
		kind:     kindOutline,
		promptID: wfprompt.PromptCourseOutlineV1,
		vars:     outlineVars(title, topic, opts),
		decode:   decodeOutline,
		fallback: func(reason string) *CourseOutline {
			if reason == reasonNoProvider {
				return placeholderOutline(title, topic)
			}
			return failedOutline(title, topic)
		},
	})
}

func outlineVars(title, topic string, opts GenerationOptions) map[string]any {
	desired := "any"
	if opts.DesiredChapters > 0 {
		desired = strconv.Itoa(opts.DesiredChapters)
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = "unspecified"
	}
	duration := opts.Duration
	if duration == "" {
		duration = "unspecified"
	}
	return map[string]any{
		"title":            title,
		"topic":            topic,
		"difficulty":       difficulty,
		"duration":         duration,
		"add_video":        strconv.FormatBool(opts.AddVideo),
		"desired_chapters": desired,
	}
}

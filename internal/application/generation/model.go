package generation

// GenerationOptions 课程生成选项快照
type GenerationOptions struct {
	Difficulty      string `json:"difficulty,omitempty"`
	Duration        string `json:"duration,omitempty"`
	AddVideo        bool   `json:"addVideo,omitempty"`
	DesiredChapters int    `json:"desiredChapters,omitempty"`
}

// OutlineChapter 大纲中的单个章节
type OutlineChapter struct {
	Title string `json:"title"`
}

// CourseOutline 大纲生成结果（瞬态，由调用方持久化）
type CourseOutline struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Chapters    []OutlineChapter `json:"chapters"`
}

// ChapterTitles 按顺序返回章节标题
func (o *CourseOutline) ChapterTitles() []string {
	if o == nil {
		return nil
	}
	titles := make([]string, 0, len(o.Chapters))
	for _, ch := range o.Chapters {
		titles = append(titles, ch.Title)
	}
	return titles
}

// ChapterContent 单章内容生成结果（瞬态）
type ChapterContent struct {
	Content     string   `json:"content"`
	Explanation string   `json:"explanation"`
	CodeExample string   `json:"codeExample"`
	References  []string `json:"references"`
}

const (
	kindOutline = "outline"
	kindChapter = "chapter"

	reasonNoProvider    = "no_provider"
	reasonProviderError = "provider_error"
	reasonShapeError    = "shape_error"
)

package generation

import (
	"fmt"
	"net/url"
	"strings"
)

const staticReferenceURL = "https://developer.mozilla.org/"

func defaultTitle(title, topic string) string {
	if title != "" {
		return title
	}
	return fmt.Sprintf("Intro to %s", topic)
}

func defaultDescription(topic string) string {
	return fmt.Sprintf("An introductory course on %s.", topic)
}

// placeholderOutline 未配置模型时的 3 章占位大纲
func placeholderOutline(title, topic string) *CourseOutline {
	return &CourseOutline{
		Title:       defaultTitle(title, topic),
		Description: defaultDescription(topic),
		Chapters: []OutlineChapter{
			{Title: fmt.Sprintf("Getting Started with %s", topic)},
			{Title: fmt.Sprintf("%s Fundamentals", topic)},
			{Title: fmt.Sprintf("Hands-on Project with %s", topic)},
		},
	}
}

// failedOutline 模型调用失败或输出不合法时的 2 章兜底大纲。
// 与 placeholderOutline 的措辞不同，两种输出都需要保留。
func failedOutline(title, topic string) *CourseOutline {
	return &CourseOutline{
		Title:       defaultTitle(title, topic),
		Description: defaultDescription(topic),
		Chapters: []OutlineChapter{
			{Title: fmt.Sprintf("Overview of %s", topic)},
			{Title: fmt.Sprintf("%s Deep Dive", topic)},
		},
	}
}

// placeholderChapter 章节内容只有一种兜底形态
func placeholderChapter(chapterTitle, topic string) *ChapterContent {
	return &ChapterContent{
		Content:     fmt.Sprintf("Detailed content for %s about %s.", chapterTitle, topic),
		Explanation: fmt.Sprintf("Explanation of key concepts in %s.", chapterTitle),
		CodeExample: fmt.Sprintf("console.log('Example for %s');", chapterTitle),
		References: []string{
			staticReferenceURL,
			"https://example.com/" + encodeURIComponent(topic),
		},
	}
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent 按 URI 组件规则做百分号编码：空格为 %20，!'()* 保留原样
func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}

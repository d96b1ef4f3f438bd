package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	wfnode "ai-course-builder-api/internal/workflow/node"
)

// decodeOutline 类型化解析大纲：必须是非 null 对象且 chapters 为数组
func decodeOutline(raw string) (*CourseOutline, error) {
	var out *CourseOutline
	if err := decodeJSON(raw, &out); err != nil {
		return nil, &ShapeError{Kind: kindOutline, Err: err}
	}
	if out == nil {
		return nil, &ShapeError{Kind: kindOutline, Err: errors.New("null response")}
	}
	if out.Chapters == nil {
		return nil, &ShapeError{Kind: kindOutline, Err: errors.New("chapters is not an array")}
	}
	return out, nil
}

// decodeChapterContent 类型化解析章节内容：必须是非 null 对象且 content 非空
func decodeChapterContent(raw string) (*ChapterContent, error) {
	var out *ChapterContent
	if err := decodeJSON(raw, &out); err != nil {
		return nil, &ShapeError{Kind: kindChapter, Err: err}
	}
	if out == nil {
		return nil, &ShapeError{Kind: kindChapter, Err: errors.New("null response")}
	}
	if strings.TrimSpace(out.Content) == "" {
		return nil, &ShapeError{Kind: kindChapter, Err: errors.New("content is empty")}
	}
	if out.References == nil {
		out.References = []string{}
	}
	return out, nil
}

// decodeJSON 截取模型输出中的 JSON 值并严格解码为 v，拒绝尾部多余数据
func decodeJSON(raw string, v any) error {
	text := wfnode.ExtractJSONValue(raw)
	if text == "" {
		return errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after json value")
	}
	return nil
}
